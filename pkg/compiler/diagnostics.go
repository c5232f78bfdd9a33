// lootfilter/pkg/compiler/diagnostics.go

package compiler

import (
	"fmt"

	"rgehrsitz/lootfilter/pkg/logging"
)

// LineType classifies a source line for editors.
type LineType int

const (
	Empty LineType = iota
	Comment
	Visibility
	Filter
	Modifier
	Error
)

var lineTypeNames = []string{"Empty", "Comment", "Visibility", "Filter", "Modifier", "Error"}

func (t LineType) String() string {
	if int(t) < 0 || int(t) >= len(lineTypeNames) {
		return fmt.Sprintf("LineType(%d)", int(t))
	}
	return lineTypeNames[t]
}

func (t LineType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type DiagnosticKind int

const (
	TokenError DiagnosticKind = iota
	UnexpectedEndOfLine
	InvalidSocketGroup
	ParseError
	Warning
)

var diagnosticErrorTypes = map[DiagnosticKind]logging.ErrorType{
	TokenError:          logging.ErrorTypeToken,
	UnexpectedEndOfLine: logging.ErrorTypeEndOfLine,
	InvalidSocketGroup:  logging.ErrorTypeSocketGroup,
	ParseError:          logging.ErrorTypeParse,
	Warning:             logging.ErrorTypeWarning,
}

func (k DiagnosticKind) String() string {
	return string(diagnosticErrorTypes[k])
}

// Diagnostic is one error or warning tied to a source line.
type Diagnostic struct {
	Kind DiagnosticKind
	// Line is zero-based; messages print it one-based.
	Line int
	// Token is the offending text.
	Token string
	// Detail is the expected construct, the failure reason, or the warning text.
	Detail string
}

func (d Diagnostic) Message() string {
	line := d.Line + 1
	switch d.Kind {
	case TokenError:
		return fmt.Sprintf("Invalid token %q at line %d (expected %s)", d.Token, line, d.Detail)
	case UnexpectedEndOfLine:
		return fmt.Sprintf("Unexpected end of line (expected %s in line %d)", d.Detail, line)
	case InvalidSocketGroup:
		return fmt.Sprintf("Invalid socket group %q at line %d (allowed characters are R,G,B,W,D,A)", d.Token, line)
	case ParseError:
		return fmt.Sprintf("Cannot parse %q at line %d (%s)", d.Token, line, d.Detail)
	default:
		return d.Detail
	}
}

func (d Diagnostic) String() string { return d.Message() }

// Err converts the diagnostic into the shared error type.
func (d Diagnostic) Err() *logging.FilterError {
	return logging.NewError(diagnosticErrorTypes[d.Kind], d.Message(), nil, map[string]interface{}{
		"line":  d.Line + 1,
		"token": d.Token,
	})
}

// lineParser collects the diagnostics of a single line.
type lineParser struct {
	lineNr int
	diags  []Diagnostic
}

func (p *lineParser) report(kind DiagnosticKind, token, detail string) {
	p.diags = append(p.diags, Diagnostic{Kind: kind, Line: p.lineNr, Token: token, Detail: detail})
}

func (p *lineParser) tokenError(token, expected string) {
	p.report(TokenError, token, expected)
}

func (p *lineParser) endOfLine(expected string) {
	p.report(UnexpectedEndOfLine, "", expected)
}

func (p *lineParser) invalidSocketGroup(group string) {
	p.report(InvalidSocketGroup, group, "")
}

func (p *lineParser) parseError(text, reason string) {
	p.report(ParseError, text, reason)
}

func (p *lineParser) failed() bool {
	return len(p.diags) > 0
}
