// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/utils"
)

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrInputTooLarge   = errors.New("input is too large")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrIndexOutOfRange = errors.New("index out-of-range")
	ErrNoKeys          = errors.New("no available keys")
)

func Address(label string) (codec.Address, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := codec.ParseAnyAddress(consts.HRP, input)
			return err
		},
	}
	recipient, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ParseAnyAddress(consts.HRP, recipient)
}

func String(label string, minLen int, maxLen int) (string, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) < minLen {
				return ErrInputEmpty
			}
			if len(input) > maxLen {
				return ErrInputTooLarge
			}
			return nil
		},
	}
	text, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ParseInt32 accepts any decimal in the signed 32-bit range.
func ParseInt32(input string) (int32, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return 0, ErrInputEmpty
	}
	v, err := strconv.ParseInt(input, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func Int32(label string) (int32, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseInt32(input)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return ParseInt32(raw)
}

func parseChoice(input string, maxChoice int) (int, error) {
	if len(input) == 0 {
		return -1, ErrInputEmpty
	}
	index, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return -1, err
	}
	if index >= maxChoice || index < 0 {
		return -1, ErrIndexOutOfRange
	}
	return index, nil
}

func Choice(label string, maxChoice int) (int, error) {
	if maxChoice == 1 {
		utils.Outf("{{yellow}}%s:{{/}} 0 [auto-selected]\n", label)
		return 0, nil
	}
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := parseChoice(input, maxChoice)
			return err
		},
	}
	rawIndex, err := promptText.Run()
	if err != nil {
		return -1, err
	}
	return parseChoice(rawIndex, maxChoice)
}

func parseYesNo(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	case "":
		return false, ErrInputEmpty
	default:
		return false, ErrInvalidChoice
	}
}

func Bool(label string) (bool, error) {
	promptText := promptui.Prompt{
		Label: label + " (y/n)",
		Validate: func(input string) error {
			_, err := parseYesNo(input)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return parseYesNo(raw)
}

func Continue() (bool, error) {
	cont, err := Bool("continue")
	if err != nil {
		return false, err
	}
	if !cont {
		utils.Outf("{{red}}exiting...{{/}}\n")
	}
	return cont, nil
}

// Command asks for a command variant and, when the variant carries one, its
// argument.
func Command(label string) (msg.Command, error) {
	names := msg.CommandNames()
	utils.Outf("{{cyan}}available commands:{{/}} %d\n", len(names))
	for i, name := range names {
		utils.Outf("%d) {{cyan}}%s{{/}}\n", i, name)
	}
	index, err := Choice(label, len(names))
	if err != nil {
		return nil, err
	}
	name := names[index]
	argName, ok := CommandArgument(name)
	if !ok {
		return NewCommand(name, 0)
	}
	v, err := Int32(argName)
	if err != nil {
		return nil, err
	}
	return NewCommand(name, v)
}

// CommandArgument returns the name of the single argument taken by the
// command tagged [name], if any.
func CommandArgument(name string) (string, bool) {
	switch name {
	case msg.IncrementByName, msg.DecrementByName:
		return "amount", true
	case msg.SetValueName, msg.UpdateStateName:
		return "new_value", true
	case msg.ResetName:
		return "count", true
	default:
		return "", false
	}
}

// NewCommand builds the command tagged [name]. [v] is ignored by variants
// without an argument.
func NewCommand(name string, v int32) (msg.Command, error) {
	switch name {
	case msg.IncrementName:
		return &msg.Increment{}, nil
	case msg.DecrementName:
		return &msg.Decrement{}, nil
	case msg.IncrementByName:
		return &msg.IncrementBy{Amount: v}, nil
	case msg.DecrementByName:
		return &msg.DecrementBy{Amount: v}, nil
	case msg.SetValueName, msg.UpdateStateName:
		return &msg.SetValue{NewValue: v}, nil
	case msg.ResetName:
		return &msg.Reset{Count: v}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, name)
	}
}

// Key asks for one of [names] and returns it.
func Key(label string, names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoKeys
	}
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(names))
	for i, name := range names {
		utils.Outf("%d) {{cyan}}%s{{/}}\n", i, name)
	}
	index, err := Choice(label, len(names))
	if err != nil {
		return "", err
	}
	return names[index], nil
}
