package report

import (
	"errors"
	"fmt"
)

// ErrInvalidHour is returned for hours outside 0-23. The assembler
// feeds wall-clock hours, so seeing it indicates a defect upstream.
var ErrInvalidHour = errors.New("hour out of range")

// Greeting selects the dashboard greeting for a wall-clock hour.
func Greeting(hour int) (string, error) {
	switch {
	case hour >= 6 && hour <= 11:
		return "Доброе утро", nil
	case hour >= 12 && hour <= 17:
		return "Добрый день", nil
	case hour >= 18 && hour <= 23:
		return "Добрый вечер", nil
	case hour >= 0 && hour <= 5:
		return "Доброй ночи", nil
	}
	return "", fmt.Errorf("%w: %d", ErrInvalidHour, hour)
}
