// Package prompt reads the order identifier and power threshold from an
// interactive terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrNotDigits         = errors.New("the order number must contain digits only")
	ErrInvalidThreshold  = errors.New("enter a valid number such as 0, 10, 20.5 or 30W")
	ErrNegativeThreshold = errors.New("the threshold cannot be negative")
)

var decimalPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// ParseSessionID validates an order identifier.
func ParseSessionID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNotDigits
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrNotDigits
		}
	}
	return s, nil
}

// ParseThreshold parses a power threshold in watts written as a plain decimal
// number. A single trailing W or w unit is accepted.
func ParseThreshold(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if n := len(s); n > 0 && (s[n-1] == 'W' || s[n-1] == 'w') {
		s = strings.TrimSpace(s[:n-1])
	}
	negative := strings.HasPrefix(s, "-")
	if !decimalPattern.MatchString(strings.TrimPrefix(s, "-")) {
		return 0, ErrInvalidThreshold
	}
	if negative {
		return 0, ErrNegativeThreshold
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidThreshold
	}
	return v, nil
}

type line struct {
	text string
	err  error
}

// Prompter asks questions on out and reads answers from in. Reads honour
// context cancellation; a pending read is resumed by the next question.
type Prompter struct {
	out   io.Writer
	in    *bufio.Reader
	once  sync.Once
	lines chan line
}

// New returns a Prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{out: out, in: bufio.NewReader(in), lines: make(chan line)}
}

func (p *Prompter) start() {
	go func() {
		for {
			s, err := p.in.ReadString('\n')
			if err != nil && (s == "" || !errors.Is(err, io.EOF)) {
				p.lines <- line{err: err}
				close(p.lines)
				return
			}
			p.lines <- line{text: strings.TrimRight(s, "\r\n")}
		}
	}()
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(p.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

func (p *Prompter) ask(ctx context.Context, question string, parse func(string) error) error {
	for {
		fmt.Fprint(p.out, question)
		s, err := p.readLine(ctx)
		if err != nil {
			return err
		}
		if err := parse(s); err != nil {
			fmt.Fprintf(p.out, "Error: %v, please try again!\n", err)
			continue
		}
		return nil
	}
}

// SessionID asks until a digits-only order number is entered.
func (p *Prompter) SessionID(ctx context.Context) (string, error) {
	var id string
	err := p.ask(ctx, "Enter the order number: ", func(s string) (err error) {
		id, err = ParseSessionID(s)
		return err
	})
	return id, err
}

// Threshold asks until a valid non-negative threshold is entered.
func (p *Prompter) Threshold(ctx context.Context) (float64, error) {
	var v float64
	err := p.ask(ctx, "Enter the minimum power threshold (W, 0W detects finished or unplugged charging): ",
		func(s string) (err error) {
			v, err = ParseThreshold(s)
			return err
		})
	return v, err
}
