package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/andy/tourbook/internal/domain"
)

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// money formats an amount with thousands separators and no decimals
// unless the value has a fractional part
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		b.WriteString("." + frac)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// resolveGuide accepts a guide id or a name (accents and case ignored)
func resolveGuide(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	md, err := appInstance.MasterDataRepo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load guides: %w", err)
	}
	if g := md.GuideByID(ref); g != nil {
		return g.ID, nil
	}
	want := domain.NormalizeText(ref)
	for _, g := range md.Guides {
		if domain.NormalizeText(g.Name) == want {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("guide %q not found", ref)
}

// parseAssignment splits "key=value"
func parseAssignment(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), nil
}

// removeDay drops every itinerary item numbered day
func removeDay(items []domain.ItineraryItem, day int) []domain.ItineraryItem {
	out := make([]domain.ItineraryItem, 0, len(items))
	for _, item := range items {
		if item.Day != day {
			out = append(out, item)
		}
	}
	return out
}

// appendDays adds one item per location, numbered after the highest day
func appendDays(items []domain.ItineraryItem, locations []string) []domain.ItineraryItem {
	last := 0
	for _, item := range items {
		last = max(last, item.Day)
	}
	for _, loc := range locations {
		last++
		items = append(items, domain.ItineraryItem{Day: last, Location: loc})
	}
	return items
}
