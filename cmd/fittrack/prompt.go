package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fittrack-client/internal/models"
)

type prompter struct {
	reader *bufio.Reader
}

func newPrompter(r io.Reader) *prompter {
	return &prompter{reader: bufio.NewReader(r)}
}

// line prints label and reads one trimmed line. EOF exits the program.
func (p *prompter) line(label string) string {
	fmt.Print(label)
	input, err := p.reader.ReadString('\n')
	if err != nil && input == "" {
		fmt.Println()
		os.Exit(0)
	}
	return strings.TrimSpace(input)
}

func (p *prompter) number(label string) (int64, bool) {
	n, err := strconv.ParseInt(p.line(label), 10, 64)
	if err != nil {
		fmt.Println("Please enter a number")
		return 0, false
	}
	return n, true
}

func (p *prompter) float(label string) (float64, bool) {
	f, err := strconv.ParseFloat(p.line(label), 64)
	if err != nil {
		fmt.Println("Please enter a number")
		return 0, false
	}
	return f, true
}

// optional returns nil for an empty answer.
func (p *prompter) optional(label string) *models.Quantity {
	v := p.line(label)
	if v == "" {
		return nil
	}
	return models.NewQuantity(v)
}
