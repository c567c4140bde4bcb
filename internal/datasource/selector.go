package datasource

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Selector asks the user to pick one of a numbered list of files
type Selector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewSelector creates a selector reading answers from in and writing menus to out
func NewSelector(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewReader(in), out: out}
}

// Choose prints the options numbered from 1 and returns the chosen one. An optional choice
// returns "" with no error when the list is empty or the answer is blank or invalid.
func (s *Selector) Choose(title string, options []string, optional bool) (string, error) {
	if len(options) == 0 {
		if optional {
			fmt.Fprintf(s.out, "\nNo %s found.\n", title)
			return "", nil
		}
		return "", fmt.Errorf("%w: %s", ErrNoFiles, title)
	}

	fmt.Fprintf(s.out, "\nAvailable %s:\n", title)
	for i, option := range options {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, option)
	}
	fmt.Fprint(s.out, "\nChoose number: ")

	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	answer := strings.TrimSpace(line)

	choice, convErr := strconv.Atoi(answer)
	if convErr != nil || choice < 1 || choice > len(options) {
		if optional {
			fmt.Fprintf(s.out, "Warning: no %s selected.\n", title)
			return "", nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
	}
	return options[choice-1], nil
}

// Confirm asks a yes/no question. The answers "y", "yes", "j" and "ja" count as yes in any
// case; anything else, including a blank line or end of input, is no.
func (s *Selector) Confirm(question string) bool {
	fmt.Fprintf(s.out, "\n%s (y/n): ", question)
	line, _ := s.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "j", "ja":
		return true
	}
	return false
}
