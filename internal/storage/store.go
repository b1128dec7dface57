// Package storage keeps evaluated rotors on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
	"github.com/san-kum/bemsim/internal/rotor"
)

var ErrMalformed = errors.New("storage: malformed run")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo names the solver pieces that produced a result.
type RunInfo struct {
	Name         string
	Formulation  string
	Coefficients string
	Finder       string
}

// RunMetadata is stored as metadata.json. Non-finite coefficients of a
// degenerate run survive the round trip.
type RunMetadata struct {
	ID           string
	Name         string
	Timestamp    time.Time
	Formulation  string
	Coefficients string
	Finder       string
	Rotor        rotor.Rotor
	Performance  bem.RotorPerformance
	ElapsedMS    float64
}

// ElementRow is one line of elements.csv.
type ElementRow struct {
	Index      int
	R          float64
	Dr         float64
	Theta      float64
	Chord      float64
	A          float64
	B          float64
	Phi        float64
	Alpha      float64
	CL         float64
	CD         float64
	DeltaT     float64
	DeltaQ     float64
	Iterations int
}

func (r ElementRow) Station() geometry.Station {
	return geometry.Station{Index: r.Index, R: r.R, Dr: r.Dr, Theta: r.Theta, Chord: r.Chord}
}

// Output rebuilds the element output. Quantities that are not stored
// are left zero.
func (r ElementRow) Output() bem.ElementOutput {
	out := bem.ElementOutput{A: r.A, B: r.B, Iterations: r.Iterations}
	out.Phi = r.Phi
	out.Alpha = r.Alpha
	out.CL = r.CL
	out.CD = r.CD
	out.DeltaT = r.DeltaT
	out.DeltaQ = r.DeltaQ
	return out
}

// Result rebuilds a stored run as a rotor result.
func (s *Store) Result(runID string) (*RunMetadata, *rotor.Result, error) {
	meta, err := s.LoadMetadata(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.LoadElements(runID)
	if err != nil {
		return nil, nil, err
	}

	res := &rotor.Result{
		Rotor:       meta.Rotor,
		Stations:    make([]geometry.Station, len(rows)),
		Elements:    make([]bem.ElementOutput, len(rows)),
		Performance: meta.Performance,
		Elapsed:     time.Duration(meta.ElapsedMS * float64(time.Millisecond)),
	}
	for i, row := range rows {
		res.Stations[i] = row.Station()
		res.Elements[i] = row.Output()
	}
	return meta, res, nil
}

var elementHeader = []string{
	"index", "r", "dr", "theta", "chord", "a", "b", "phi", "alpha",
	"c_l", "c_d", "delta_t", "delta_q", "iterations",
}

func (s *Store) Save(info RunInfo, result *rotor.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Name:         info.Name,
		Timestamp:    now,
		Formulation:  info.Formulation,
		Coefficients: info.Coefficients,
		Finder:       info.Finder,
		Rotor:        result.Rotor,
		Performance:  result.Performance,
		ElapsedMS:    float64(result.Elapsed.Microseconds()) / 1000,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeElements(filepath.Join(runDir, "elements.csv"), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeElements(path string, result *rotor.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(elementHeader); err != nil {
		return err
	}

	for i, el := range result.Elements {
		st := result.Stations[i]
		row := []string{strconv.Itoa(st.Index)}
		for _, v := range []float64{
			st.R, st.Dr, st.Theta, st.Chord, el.A, el.B, el.Phi, el.Alpha,
			el.CL, el.CD, el.DeltaT, el.DeltaQ,
		} {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		row = append(row, strconv.Itoa(el.Iterations))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every stored run, newest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadElements(runID string) ([]ElementRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "elements.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(elementHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, runID, err)
	}
	if len(records) < 1 {
		return []ElementRow{}, nil
	}

	rows := make([]ElementRow, 0, len(records)-1)
	for line, rec := range records[1:] {
		row, err := parseElement(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrMalformed, runID, line+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseElement(rec []string) (ElementRow, error) {
	var row ElementRow
	var err error

	if row.Index, err = strconv.Atoi(rec[0]); err != nil {
		return row, err
	}
	fields := []*float64{
		&row.R, &row.Dr, &row.Theta, &row.Chord, &row.A, &row.B, &row.Phi,
		&row.Alpha, &row.CL, &row.CD, &row.DeltaT, &row.DeltaQ,
	}
	for i, dst := range fields {
		if *dst, err = strconv.ParseFloat(rec[i+1], 64); err != nil {
			return row, err
		}
	}
	row.Iterations, err = strconv.Atoi(rec[len(rec)-1])
	return row, err
}

// coefficient stores NaN as null and infinities as "+Inf"/"-Inf" so a
// degenerate run reads back with the same values it was saved with.
type coefficient float64

func (c coefficient) MarshalJSON() ([]byte, error) {
	v := float64(c)
	switch {
	case math.IsNaN(v):
		return []byte("null"), nil
	case math.IsInf(v, 0):
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (c *coefficient) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = coefficient(math.NaN())
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%w: coefficient %q", ErrMalformed, s)
		}
		*c = coefficient(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = coefficient(v)
	return nil
}

type storedPerformance struct {
	NetThrust  coefficient          `json:"net_thrust"`
	NetTorque  coefficient          `json:"net_torque"`
	CT         coefficient          `json:"c_t"`
	CQ         coefficient          `json:"c_q"`
	CP         coefficient          `json:"c_p"`
	J          coefficient          `json:"j"`
	Eta        coefficient          `json:"eta"`
	Basis      bem.CoefficientBasis `json:"basis"`
	Degenerate bool                 `json:"degenerate"`
}

func toStored(p bem.RotorPerformance) storedPerformance {
	return storedPerformance{
		NetThrust:  coefficient(p.NetThrust),
		NetTorque:  coefficient(p.NetTorque),
		CT:         coefficient(p.CT),
		CQ:         coefficient(p.CQ),
		CP:         coefficient(p.CP),
		J:          coefficient(p.J),
		Eta:        coefficient(p.Eta),
		Basis:      p.Basis,
		Degenerate: p.Degenerate,
	}
}

func (s storedPerformance) performance() bem.RotorPerformance {
	return bem.RotorPerformance{
		NetThrust:  float64(s.NetThrust),
		NetTorque:  float64(s.NetTorque),
		CT:         float64(s.CT),
		CQ:         float64(s.CQ),
		CP:         float64(s.CP),
		J:          float64(s.J),
		Eta:        float64(s.Eta),
		Basis:      s.Basis,
		Degenerate: s.Degenerate,
	}
}

// runMetadataJSON is the on-disk form of RunMetadata.
type runMetadataJSON struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Timestamp    time.Time         `json:"timestamp"`
	Formulation  string            `json:"formulation"`
	Coefficients string            `json:"coefficients"`
	Finder       string            `json:"finder"`
	Rotor        rotor.Rotor       `json:"rotor"`
	Performance  storedPerformance `json:"performance"`
	ElapsedMS    float64           `json:"elapsed_ms"`
}

func (m RunMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(runMetadataJSON{
		ID:           m.ID,
		Name:         m.Name,
		Timestamp:    m.Timestamp,
		Formulation:  m.Formulation,
		Coefficients: m.Coefficients,
		Finder:       m.Finder,
		Rotor:        m.Rotor,
		Performance:  toStored(m.Performance),
		ElapsedMS:    m.ElapsedMS,
	})
}

func (m *RunMetadata) UnmarshalJSON(data []byte) error {
	var raw runMetadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = RunMetadata{
		ID:           raw.ID,
		Name:         raw.Name,
		Timestamp:    raw.Timestamp,
		Formulation:  raw.Formulation,
		Coefficients: raw.Coefficients,
		Finder:       raw.Finder,
		Rotor:        raw.Rotor,
		Performance:  raw.Performance.performance(),
		ElapsedMS:    raw.ElapsedMS,
	}
	return nil
}
