// Package rawstore persiste los snapshots diarios como archivos JSON con
// fecha en el nombre: raw/{tipo}_{YYYY-MM-DD}.json para los datos crudos y
// processed/investment_ideas_{YYYY-MM-DD}.json para el reporte. El archivo
// más reciente de cada tipo es la fuente del análisis.
package rawstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// SchemaVersion actual de los archivos raw. Los archivos sin el campo son
// de la generación anterior (mapas sin envoltorio) y se normalizan al leer.
const SchemaVersion = 2

// Store es el almacén de archivos JSON con fecha.
type Store struct {
	dataDir string
}

// New crea el Store y asegura los directorios raw/ y processed/.
func New(dataDir string) (*Store, error) {
	for _, dir := range []string{filepath.Join(dataDir, "raw"), filepath.Join(dataDir, "processed")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("rawstore.New: %w", err)
		}
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) rawDir() string       { return filepath.Join(s.dataDir, "raw") }
func (s *Store) processedDir() string { return filepath.Join(s.dataDir, "processed") }

// SaveBars guarda un snapshot de instrumentos. Reescribe el archivo del día
// si ya existe.
func (s *Store) SaveBars(dataType, date string, instruments map[string]domain.Instrument) error {
	snap := domain.Snapshot{
		SchemaVersion: SchemaVersion,
		Date:          date,
		Instruments:   instruments,
	}
	return s.writeJSON(filepath.Join(s.rawDir(), dataType+"_"+date+".json"), snap)
}

// document es el envoltorio genérico de los tipos que no son instrumentos
// (noticias, series macro, datos alternativos, fallos).
type document struct {
	SchemaVersion int             `json:"schema_version"`
	Date          string          `json:"date"`
	Data          json.RawMessage `json:"data"`
}

// SaveDocument guarda un payload arbitrario bajo el envoltorio versionado.
func (s *Store) SaveDocument(dataType, date string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rawstore.SaveDocument %s: %w", dataType, err)
	}
	doc := document{SchemaVersion: SchemaVersion, Date: date, Data: data}
	return s.writeJSON(filepath.Join(s.rawDir(), dataType+"_"+date+".json"), doc)
}

// LoadLatestBars carga el snapshot de instrumentos más reciente de un tipo.
// Normaliza archivos legacy (sin schema_version) al formato actual.
func (s *Store) LoadLatestBars(dataType string) (domain.Snapshot, error) {
	path, date, err := s.latestFile(dataType)
	if err != nil {
		return domain.Snapshot{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("rawstore.LoadLatestBars %s: %w", dataType, err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.Snapshot{}, fmt.Errorf("rawstore.LoadLatestBars %s: %w", dataType, err)
	}

	if _, ok := probe["schema_version"]; ok {
		var snap domain.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return domain.Snapshot{}, fmt.Errorf("rawstore.LoadLatestBars %s: %w", dataType, err)
		}
		return snap, nil
	}

	instruments, err := normalizeLegacy(probe)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("rawstore.LoadLatestBars %s: legacy file: %w", dataType, err)
	}
	slog.Debug("normalized legacy snapshot", "type", dataType, "date", date)
	return domain.Snapshot{SchemaVersion: SchemaVersion, Date: date, Instruments: instruments}, nil
}

// LoadLatestDocument carga el payload más reciente de un tipo no-barras en
// out. Devuelve la fecha del archivo.
func (s *Store) LoadLatestDocument(dataType string, out any) (string, error) {
	path, date, err := s.latestFile(dataType)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("rawstore.LoadLatestDocument %s: %w", dataType, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err == nil && doc.SchemaVersion > 0 {
		if err := json.Unmarshal(doc.Data, out); err != nil {
			return "", fmt.Errorf("rawstore.LoadLatestDocument %s: %w", dataType, err)
		}
		return doc.Date, nil
	}

	// Legacy: el payload era el archivo entero.
	if err := json.Unmarshal(raw, out); err != nil {
		return "", fmt.Errorf("rawstore.LoadLatestDocument %s: %w", dataType, err)
	}
	return date, nil
}

// SaveReport escribe el reporte de ideas en processed/. Si la serialización
// falla, diagnostica campo por campo para identificar el valor culpable y
// devuelve el error original.
func (s *Store) SaveReport(report domain.Report) error {
	path := filepath.Join(s.processedDir(), "investment_ideas_"+report.Date+".json")
	if err := s.writeJSON(path, report); err != nil {
		diagnoseReport(report)
		return err
	}
	return nil
}

// LoadReport carga el reporte de una fecha, o el más reciente si date es "".
func (s *Store) LoadReport(date string) (domain.Report, error) {
	var path string
	if date != "" {
		path = filepath.Join(s.processedDir(), "investment_ideas_"+date+".json")
	} else {
		var err error
		if path, _, err = latestIn(s.processedDir(), "investment_ideas"); err != nil {
			return domain.Report{}, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Report{}, fmt.Errorf("rawstore.LoadReport: %w", err)
	}
	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.Report{}, fmt.Errorf("rawstore.LoadReport: %w", err)
	}
	return report, nil
}

// RawFiles devuelve los paths de todos los archivos raw, orden estable.
func (s *Store) RawFiles() ([]string, error) {
	return listJSON(s.rawDir())
}

// ProcessedFiles devuelve los paths de todos los reportes, orden estable.
func (s *Store) ProcessedFiles() ([]string, error) {
	return listJSON(s.processedDir())
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("rawstore: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rawstore: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) latestFile(dataType string) (path, date string, err error) {
	return latestIn(s.rawDir(), dataType)
}

// latestIn busca el archivo más reciente de un prefijo. Las fechas ISO del
// nombre ordenan lexicográficamente, así que basta ordenar los nombres.
func latestIn(dir, prefix string) (path, date string, err error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*.json"))
	if err != nil {
		return "", "", fmt.Errorf("rawstore: glob %s: %w", prefix, err)
	}
	if len(matches) == 0 {
		return "", "", fmt.Errorf("rawstore: no files for %q", prefix)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))

	path = matches[0]
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	if i := strings.LastIndex(name, "_"); i >= 0 {
		date = name[i+1:]
	}
	return path, date, nil
}

func listJSON(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("rawstore: list %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// diagnoseReport serializa cada campo por separado para ubicar el que
// rompió el marshal del reporte completo.
func diagnoseReport(report domain.Report) {
	fields := map[string]any{
		"date":             report.Date,
		"ideas":            report.Ideas,
		"data_sources":     report.DataSources,
		"markets_analyzed": report.MarketsAnalyzed,
		"data_types_used":  report.DataTypesUsed,
		"generated_at":     report.GeneratedAt,
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := json.Marshal(fields[name]); err != nil {
			slog.Error("report field not serializable", "field", name, "error", err)
		}
	}
}
