package taskql

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

type Condition struct {
	Not       bool
	FieldName string
	Value     string
}

func (c Condition) String() string {
	prefix := ""
	if c.Not {
		prefix = "-"
	}

	return prefix + c.FieldName + ":" + strconv.Quote(c.Value)
}

type Token string

const (
	TokenStart     = Token("init")
	TokenField     = Token("fieldName")
	TokenSeparator = Token("sep")
	TokenValue     = Token("value")
	TokenEnd       = Token("end")
)

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Parse splits input into field conditions of the form [-]field:value.
// Values end at the next whitespace unless they are quoted.
func Parse(input string) ([]*Condition, error) {
	result := make([]*Condition, 0, 5)

	var (
		s       = new(scanner.Scanner)
		scanErr error
	)

	s.Init(strings.NewReader(input))
	s.Error = func(_ *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("failed to parse query: %s", msg)
		}
	}

	// whitespace terminates values so it has to reach the parser
	s.Whitespace = 0
	s.Mode = scanner.ScanIdents | scanner.ScanStrings

	var (
		cur   *Condition
		state = TokenStart
	)

	finish := func() error {
		if cur == nil {
			return nil
		}

		if state != TokenEnd && (state != TokenValue || cur.Value == "") {
			return fmt.Errorf("incomplete condition %q", cur.FieldName)
		}

		result = append(result, cur)
		cur = nil

		return nil
	}

	for token := s.Scan(); token != scanner.EOF; token = s.Scan() {
		if scanErr != nil {
			return nil, scanErr
		}

		text := s.TokenText()

		if isSpace(token) {
			if err := finish(); err != nil {
				return nil, err
			}

			continue
		}

		if cur == nil {
			state = TokenStart
			cur = &Condition{}
		}

		switch state {
		case TokenStart, TokenField:
			switch {
			case token == '-' && state == TokenStart:
				cur.Not = true
				state = TokenField

			case token == scanner.Ident:
				cur.FieldName = text
				state = TokenSeparator

			default:
				return nil, fmt.Errorf("unexpected token %q, expected a field name", text)
			}

		case TokenSeparator:
			if token != ':' {
				return nil, fmt.Errorf("unexpected token %q, expected ':' after %q", text, cur.FieldName)
			}

			state = TokenValue

		case TokenValue:
			if token == scanner.String {
				if cur.Value != "" {
					return nil, fmt.Errorf("unexpected string literal %s", text)
				}

				value, err := strconv.Unquote(text)
				if err != nil {
					return nil, err
				}

				cur.Value = value
				state = TokenEnd

				continue
			}

			cur.Value += text

		case TokenEnd:
			return nil, fmt.Errorf("unexpected token %q after quoted value", text)
		}
	}

	if scanErr != nil {
		return nil, scanErr
	}

	if err := finish(); err != nil {
		return nil, err
	}

	return result, nil
}
