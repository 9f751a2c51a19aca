// Package export renders rosters as delimited text for spreadsheets and
// chat apps.
package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"conduct-server-go/models"
)

const (
	// ClassHeader is the first line of a class copy: name, score, positives, negatives
	ClassHeader = "الاسم\tالنقاط\tالإيجابيات\tالسلبيات"

	tagSeparator      = ","
	storeTagSeparator = " - "
)

// StoreHeader is the header row of a whole-store export
var StoreHeader = []string{"class", "name", "score", "positive", "negative"}

// ClassTSV formats one class roster as tab separated text, one student per
// line in roster order. This is the clipboard format.
func ClassTSV(students []models.Student) string {
	var b strings.Builder
	b.WriteString(ClassHeader)
	b.WriteByte('\n')
	for _, s := range students {
		fmt.Fprintf(&b, "%s\t%d\t%s\t%s\n",
			tsvField(s.Name),
			s.Score,
			tsvField(strings.Join(s.Positive, tagSeparator)),
			tsvField(strings.Join(s.Negative, tagSeparator)),
		)
	}
	return b.String()
}

// tsvField keeps a value on one line and inside one column
func tsvField(v string) string {
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(v)
}

// StoreCSV formats every class as CSV, each row prefixed with its class
func StoreCSV(classes []models.Clazz) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(StoreHeader); err != nil {
		return "", err
	}
	for _, c := range classes {
		for _, s := range c.Students {
			record := []string{
				c.Name,
				s.Name,
				strconv.Itoa(s.Score),
				strings.Join(s.Positive, storeTagSeparator),
				strings.Join(s.Negative, storeTagSeparator),
			}
			if err := w.Write(record); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.String(), nil
}

// WithBOM encodes text as UTF-8 with a leading byte order mark so that
// spreadsheet tools detect the encoding of Arabic text
func WithBOM(text string) ([]byte, error) {
	out, err := unicode.UTF8BOM.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return out, nil
}

// DataURI wraps data in a base64 data URI for browser downloads
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data)
}
