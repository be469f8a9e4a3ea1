package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Layout describes the office floor: table letters mapped to seat counts.
// Seat IDs are table letter + 1-based seat number ("A1" .. "A8").
type Layout struct {
	tables map[string]int
	seats  []string
}

// ParseLayout parses a spec like "A:8,B:8,C:6" into a Layout.
func ParseLayout(spec string) (*Layout, error) {
	tables := make(map[string]int)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		letter, countStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid layout entry %q", part)
		}
		letter = strings.ToUpper(strings.TrimSpace(letter))
		if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
			return nil, fmt.Errorf("invalid table letter %q", letter)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count < 1 {
			return nil, fmt.Errorf("invalid seat count for table %s: %q", letter, countStr)
		}
		tables[letter] = count
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("empty layout spec %q", spec)
	}

	letters := make([]string, 0, len(tables))
	for l := range tables {
		letters = append(letters, l)
	}
	sort.Strings(letters)

	var seats []string
	for _, l := range letters {
		for n := 1; n <= tables[l]; n++ {
			seats = append(seats, fmt.Sprintf("%s%d", l, n))
		}
	}

	return &Layout{tables: tables, seats: seats}, nil
}

// SeatIDs returns every seat in the layout, ordered by table then number.
func (l *Layout) SeatIDs() []string {
	out := make([]string, len(l.seats))
	copy(out, l.seats)
	return out
}

// Contains reports whether seatID exists in the configured layout.
func (l *Layout) Contains(seatID string) bool {
	if len(seatID) < 2 {
		return false
	}
	count, ok := l.tables[seatID[:1]]
	if !ok {
		return false
	}
	n, err := strconv.Atoi(seatID[1:])
	if err != nil {
		return false
	}
	return n >= 1 && n <= count
}

// Tables returns the table letters in order.
func (l *Layout) Tables() []string {
	letters := make([]string, 0, len(l.tables))
	for letter := range l.tables {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

// SeatCount returns the total number of seats.
func (l *Layout) SeatCount() int {
	return len(l.seats)
}
