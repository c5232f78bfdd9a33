// lootfilter/pkg/compiler/grammars.go

package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/rules"
	"rgehrsitz/lootfilter/pkg/validator"
)

const (
	maxColorChannel = 255
	maxVolume       = 300
)

// ---------------------------------------------------------------- filters

// operatorAndValue reads "[operator] value". A bare value implies "=".
func (p *lineParser) operatorAndValue(args string) (rules.Operator, string, bool) {
	tokens := strings.Fields(args)
	var symbol, value string
	switch len(tokens) {
	case 0:
		p.endOfLine("operator and value")
		return rules.Operator{}, "", false
	case 1:
		symbol, value = "=", tokens[0]
	case 2:
		symbol, value = tokens[0], tokens[1]
	default:
		p.tokenError(args, "operator and value")
		return rules.Operator{}, "", false
	}

	op, ok := rules.LookupOperator(symbol)
	if !ok {
		p.tokenError(symbol, "operator")
		return rules.Operator{}, "", false
	}
	return op, value, true
}

// stringArgs tokenizes a quoted argument list, reporting unbalanced quotes.
func (p *lineParser) stringArgs(args string) []string {
	tokens, unbalanced := Tokenize(args)
	if unbalanced {
		p.parseError(args, "no matching quote")
	}
	return tokens
}

func numericGrammar(prop rules.Property) filterGrammar {
	return func(p *lineParser, args string) rules.Filter {
		op, value, ok := p.operatorAndValue(args)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			p.tokenError(value, "number")
			return nil
		}
		f, err := rules.NewNumericFilter(prop, op, n)
		if err != nil {
			p.parseError(args, err.Error())
			return nil
		}
		return f
	}
}

// enumGrammar accepts "[operator] label..." where every label belongs to vocabulary.
func enumGrammar(prop rules.Property, vocabulary []string, what string) filterGrammar {
	return func(p *lineParser, args string) rules.Filter {
		tokens := strings.Fields(args)
		op := rules.Equal
		hasOperator := false
		if len(tokens) > 0 {
			if o, ok := rules.LookupOperator(tokens[0]); ok {
				op, hasOperator = o, true
				tokens = tokens[1:]
			}
		}
		if len(tokens) == 0 {
			p.endOfLine(what)
			return nil
		}

		values := make([]int, 0, len(tokens))
		for i, tok := range tokens {
			idx := indexOf(vocabulary, tok)
			if idx < 0 {
				expected := what
				if i == 0 && !hasOperator {
					expected = "operator or " + what
				}
				p.tokenError(tok, expected)
				return nil
			}
			values = append(values, idx)
		}

		f, err := rules.NewEnumFilter(prop, vocabulary, op, values...)
		if err != nil {
			p.parseError(args, err.Error())
			return nil
		}
		return f
	}
}

func boolGrammar(prop rules.Property) filterGrammar {
	return func(p *lineParser, args string) rules.Filter {
		tokens := strings.Fields(args)
		if len(tokens) > 0 && rules.IsOperator(tokens[0]) {
			p.tokenError(tokens[0], "True or False (without operator)")
			return nil
		}
		switch len(tokens) {
		case 0:
			p.endOfLine("True or False")
			return nil
		case 1:
		default:
			p.tokenError(args, "True or False")
			return nil
		}

		var value bool
		switch strings.ToUpper(tokens[0]) {
		case "TRUE":
			value = true
		case "FALSE":
			value = false
		default:
			p.tokenError(tokens[0], "True or False")
			return nil
		}

		f, err := rules.NewBooleanFilter(prop, value)
		if err != nil {
			p.parseError(args, err.Error())
			return nil
		}
		return f
	}
}

func multiStringGrammar(prop rules.Property) filterGrammar {
	return func(p *lineParser, args string) rules.Filter {
		tokens := p.stringArgs(args)

		mode := rules.Contains
		if len(tokens) > 0 && rules.IsOperator(tokens[0]) {
			switch tokens[0] {
			case "=":
				mode = rules.Contains
			case "==":
				mode = rules.Exact
			case "!", "!=":
				mode = rules.NotContains
			default:
				p.tokenError(tokens[0], "=, == or !=")
				return nil
			}
			tokens = tokens[1:]
		}
		if p.failed() {
			return nil
		}
		if len(tokens) == 0 {
			p.endOfLine("one or more strings")
			return nil
		}

		f, err := rules.NewMultiStringFilter(prop, mode, tokens...)
		if err != nil {
			p.parseError(args, err.Error())
			return nil
		}
		return f
	}
}

func socketGroupGrammar(p *lineParser, args string) rules.Filter {
	tokens := p.stringArgs(args)
	if p.failed() {
		return nil
	}
	if len(tokens) == 0 {
		p.endOfLine("one or more socket groups")
		return nil
	}

	groups := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		group := strings.ToUpper(tok)
		if !validator.IsSocketGroup(group) {
			p.invalidSocketGroup(group)
			return nil
		}
		groups = append(groups, group)
	}

	f, err := rules.NewSocketGroupFilter(groups...)
	if err != nil {
		p.parseError(args, err.Error())
		return nil
	}
	return f
}

func influenceGrammar(p *lineParser, args string) rules.Filter {
	tokens := p.stringArgs(args)
	if p.failed() {
		return nil
	}

	mode := rules.InfluenceAny
	if len(tokens) > 0 && rules.IsOperator(tokens[0]) {
		switch tokens[0] {
		case "==":
			mode = rules.InfluenceAll
		case "=":
		default:
			p.tokenError(tokens[0], "== or influence")
			return nil
		}
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		p.endOfLine("influence list")
		return nil
	}

	f, err := rules.NewInfluenceFilter(mode, tokens...)
	if err != nil {
		p.parseError(args, err.Error())
		return nil
	}
	return f
}

// ---------------------------------------------------------------- modifiers

// numbers parses every whitespace separated token as an integer.
func (p *lineParser) numbers(args string) ([]int, bool) {
	tokens := strings.Fields(args)
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			p.tokenError(args, "numbers")
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func colorGrammar(target rules.ColorTarget) modifierGrammar {
	return func(p *lineParser, args string) rules.Modifier {
		if strings.TrimSpace(args) == "" {
			p.endOfLine("three or four numbers")
			return nil
		}
		values, ok := p.numbers(args)
		if !ok {
			return nil
		}
		if len(values) < 3 || len(values) > 4 {
			p.tokenError(args, "three or four numbers")
			return nil
		}
		for _, v := range values {
			if v < 0 || v > maxColorChannel {
				p.parseError(args, "color values must be between 0 and 255")
				return nil
			}
		}

		c := item.RGB(uint8(values[0]), uint8(values[1]), uint8(values[2]))
		if len(values) == 4 {
			c.A = uint8(values[3])
		}
		return &rules.ColorModifier{Target: target, Color: c}
	}
}

func fontSizeGrammar(p *lineParser, args string) rules.Modifier {
	tokens := strings.Fields(args)
	switch len(tokens) {
	case 0:
		p.endOfLine("one number")
		return nil
	case 1:
	default:
		p.tokenError(args, "one number")
		return nil
	}
	size, err := strconv.Atoi(tokens[0])
	if err != nil {
		p.tokenError(tokens[0], "number")
		return nil
	}
	return &rules.FontSizeModifier{Size: size}
}

func alertSoundGrammar(positional bool) modifierGrammar {
	return func(p *lineParser, args string) rules.Modifier {
		tokens := strings.Fields(args)
		switch {
		case len(tokens) == 0:
			p.endOfLine("sound id")
			return nil
		case len(tokens) > 2:
			p.tokenError(args, "sound id + optional volume")
			return nil
		}

		id := tokens[0]
		if indexOf(SoundNames, id) < 0 {
			n, err := strconv.Atoi(id)
			if err != nil {
				p.parseError(id, "Sound ID must be a number between 1 and 16, or a valid Sound ID name")
				return nil
			}
			id = strconv.Itoa(n)
		}

		volume := rules.DefaultVolume
		if len(tokens) == 2 {
			v, err := strconv.Atoi(tokens[1])
			if err != nil {
				p.parseError(args, "volume must be a number")
				return nil
			}
			if v < 0 || v > maxVolume {
				p.parseError(args, "volume must be between 0 and 300")
				return nil
			}
			volume = v
		}
		return &rules.AlertSoundModifier{SoundID: id, Volume: volume, Positional: positional}
	}
}

func disableDropSoundGrammar(p *lineParser, args string) rules.Modifier {
	if strings.TrimSpace(args) != "" {
		p.tokenError(args, "no argument")
		return nil
	}
	return &rules.DisableDropSoundModifier{}
}

func customAlertSoundGrammar(p *lineParser, args string) rules.Modifier {
	tokens := p.stringArgs(args)
	if p.failed() {
		return nil
	}
	switch {
	case len(tokens) == 0:
		p.endOfLine("path or filename")
		return nil
	case len(tokens) > 1:
		p.parseError(args, fmt.Sprintf("unexpected argument %q", tokens[1]))
		return nil
	}
	return &rules.CustomAlertSoundModifier{Path: tokens[0]}
}

func minimapIconGrammar(p *lineParser, args string) rules.Modifier {
	tokens := strings.Fields(args)
	switch len(tokens) {
	case 0:
		p.endOfLine("SIZE COLOR SHAPE")
		return nil
	case 3:
	default:
		p.tokenError(args, "SIZE COLOR SHAPE")
		return nil
	}

	size, color, shape := tokens[0], tokens[1], tokens[2]
	if size != "0" && size != "1" && size != "2" {
		p.parseError(size, "SIZE must be 0, 1 or 2")
		return nil
	}
	if indexOf(item.ColorNames, color) < 0 {
		p.parseError(color, "COLOR must be one of: "+strings.Join(item.ColorNames, ", "))
		return nil
	}
	if indexOf(IconShapes, shape) < 0 {
		p.parseError(shape, "SHAPE must be one of: "+strings.Join(IconShapes, ", "))
		return nil
	}
	return &rules.MinimapIconModifier{Size: int(size[0] - '0'), Color: color, Shape: shape}
}

func playEffectGrammar(p *lineParser, args string) rules.Modifier {
	tokens := strings.Fields(args)
	switch {
	case len(tokens) == 0:
		p.endOfLine("color name")
		return nil
	case len(tokens) > 2:
		p.tokenError(args, "COLOR Temp")
		return nil
	}

	if indexOf(item.ColorNames, tokens[0]) < 0 {
		p.tokenError(tokens[0], "color name")
		return nil
	}
	temp := false
	if len(tokens) == 2 {
		if tokens[1] != "Temp" {
			p.tokenError(tokens[1], "Temp")
			return nil
		}
		temp = true
	}
	return &rules.PlayEffectModifier{Color: tokens[0], Temporary: temp}
}
