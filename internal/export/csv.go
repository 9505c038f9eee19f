package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"Category", "Name", "Key", "Implemented", "Value", "Status", "Importance", "Description", "Recommendation", "Link"}

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range r.Sections() {
		for _, h := range s.Headers {
			row := []string{
				s.Title,
				h.Name,
				h.Key,
				strconv.FormatBool(h.Implemented),
				h.ValueOrEmpty(),
				string(h.Status),
				string(h.Importance),
				h.Description,
				h.Recommendation,
				h.Link,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
