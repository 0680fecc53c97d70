package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
)

// Do not escape ampersands, because they are not parsed by Telegram
var htmlTelegramEscaper = strings.NewReplacer(
	`'`, "&#39;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&#34;",
)

func Escape(s string) string {
	return htmlTelegramEscaper.Replace(s)
}

func FormatThousand[T constraints.Integer](n T) string {
	in := strconv.FormatInt(int64(n), 10)
	numOfDigits := len(in)
	if n < 0 {
		numOfDigits--
	}
	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}
		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = '.'
		}
	}
}

// EmbedGUID appends an error reference in inline code.
func EmbedGUID(guid string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("(`")
	sb.WriteString(guid)
	sb.WriteString("`)")
	return sb.String()
}

// Mention returns the token transports replace with a native mention.
func Mention(id fmt.Stringer) string {
	return "@" + id.String()
}

var indonesianMonths = strings.NewReplacer(
	"January", "Januari",
	"February", "Februari",
	"March", "Maret",
	"May", "Mei",
	"June", "Juni",
	"July", "Juli",
	"August", "Agustus",
	"October", "Oktober",
	"December", "Desember",
)

func LocalizeDatestring(date string) string {
	return indonesianMonths.Replace(date)
}

// FormatDate renders t like "28 Februari 2026".
func FormatDate(t time.Time, loc *time.Location) string {
	return LocalizeDatestring(t.In(loc).Format("2 January 2006"))
}

// FormatShortDate renders t like "28/2/2026".
func FormatShortDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2/1/2006")
}

// HumanizeDelay renders d in Indonesian, e.g. "5 detik" or "1 menit 30 detik".
func HumanizeDelay(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		return "sebentar lagi"
	}

	var parts []string
	if h := int(d / time.Hour); h > 0 {
		parts = append(parts, strconv.Itoa(h)+" jam")
		d -= time.Duration(h) * time.Hour
	}
	if m := int(d / time.Minute); m > 0 {
		parts = append(parts, strconv.Itoa(m)+" menit")
		d -= time.Duration(m) * time.Minute
	}
	if s := int(d / time.Second); s > 0 {
		parts = append(parts, strconv.Itoa(s)+" detik")
	}
	return strings.Join(parts, " ")
}
