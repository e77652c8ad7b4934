package intake

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain"
)

// Columnas reconocidas de la hoja exportada. product y serial son obligatorias.
const (
	colProduct = "product"
	colSerial  = "serial"
	colCost    = "cost"
	colLot     = "lot"
	colNotes   = "notes"
)

// ParseCSV convierte una hoja exportada (product,serial,cost,lot,notes) en grupos por
// producto, en el orden en que aparece cada producto por primera vez.
func ParseCSV(r io.Reader) ([]ProductGroup, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.Invalid("archivo vacío")
	}
	if err != nil {
		return nil, domain.Invalid("encabezado inválido: %v", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colProduct, colSerial} {
		if _, ok := idx[required]; !ok {
			return nil, domain.Invalid("falta la columna %q", required)
		}
	}
	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var groups []ProductGroup
	pos := map[string]int{}
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, domain.Invalid("línea %d: %v", line, err)
		}
		product := field(rec, colProduct)
		serial := field(rec, colSerial)
		if product == "" && serial == "" {
			continue
		}
		if product == "" {
			return nil, domain.Invalid("línea %d: producto vacío", line)
		}
		u := UnitLine{Serial: serial, Lot: field(rec, colLot), Notes: field(rec, colNotes)}
		if raw := field(rec, colCost); raw != "" {
			c, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, domain.Invalid("línea %d: costo %q inválido", line, raw)
			}
			u.Cost = &c
		}
		i, ok := pos[product]
		if !ok {
			i = len(groups)
			pos[product] = i
			groups = append(groups, ProductGroup{ProductRef: product})
		}
		groups[i].Units = append(groups[i].Units, u)
	}
	if len(groups) == 0 {
		return nil, domain.Invalid("el archivo no tiene filas")
	}
	return groups, nil
}
