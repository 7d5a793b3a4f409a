package core

import (
	"strconv"
	"strings"
)

// CategoryDelimiter marks the start of the category phrase in a submission.
const CategoryDelimiter = "#"

// NormalizeAmount parses locale-formatted numeric text into a whole-unit
// amount. Dots and commas are grouping separators, never decimal points;
// rupiah has no sub-unit in practice, so "15.000" and "15,000" both mean
// fifteen thousand.
func NormalizeAmount(text string) (int64, error) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return n, nil
}

// ParseCommand splits a free-text submission into amount, description and
// category. The first token must be the amount. The category starts at the
// first token prefixed with "#" and runs to the end of the message, so
// category names may contain spaces ("#makan siang" means "makan siang").
func ParseCommand(message string) (Command, error) {
	tokens := strings.Fields(message)
	if len(tokens) == 0 {
		return Command{}, ErrInvalidAmount
	}

	amount, err := NormalizeAmount(tokens[0])
	if err != nil {
		return Command{}, err
	}

	tagIndex := -1
	for i := 1; i < len(tokens); i++ {
		if strings.HasPrefix(tokens[i], CategoryDelimiter) {
			tagIndex = i
			break
		}
	}
	if tagIndex == -1 {
		return Command{}, ErrMissingCategoryTag
	}

	category := strings.Join(tokens[tagIndex:], " ")
	category = strings.TrimPrefix(category, CategoryDelimiter)
	category = NormalizeCategory(category)
	if category == "" {
		return Command{}, ErrMissingCategoryTag
	}

	return Command{
		Amount:      amount,
		Description: strings.Join(tokens[1:tagIndex], " "),
		Category:    category,
	}, nil
}
