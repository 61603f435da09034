// Package loader reads race datasets from JSON or YAML files.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
)

// DefaultPitDuration is used when a pit stop has no exit time
const DefaultPitDuration = 25.0

var (
	ErrNoDrivers         = errors.New("dataset contains no drivers")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrPathNotFound      = errors.New("json path did not match")
)

type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath derives the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

type (
	Option func(l *loader)
	loader struct {
		format   Format
		jsonPath string
		log      *log.Logger
	}
)

func WithFormat(f Format) Option {
	return func(l *loader) {
		l.format = f
	}
}

// WithJSONPath selects the dataset root within the document.
// The first match is used.
func WithJSONPath(path string) Option {
	return func(l *loader) {
		l.jsonPath = path
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *loader) {
		l.log = logger
	}
}

func newLoader(opts ...Option) *loader {
	ret := &loader{format: FormatJSON, log: log.Default().Named("loader")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// LoadFile reads the dataset from file. The format is derived from the
// extension unless set via WithFormat.
func LoadFile(path string, opts ...Option) (*model.RaceDataset, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Load(data, append([]Option{WithFormat(f)}, opts...)...)
}

// Load decodes the dataset and prepares it for the reducer.
// The returned dataset must not be modified afterwards.
func Load(data []byte, opts ...Option) (*model.RaceDataset, error) {
	l := newLoader(opts...)
	ds, err := l.decode(data)
	if err != nil {
		return nil, err
	}
	if err := l.normalize(ds); err != nil {
		return nil, err
	}
	l.log.Debug("dataset loaded",
		log.String("format", l.format.String()),
		log.Int("drivers", len(ds.Drivers)),
		log.Int("trackPoints", len(ds.Track.Points)),
		log.Float64("trackLength", ds.Track.Length))
	return ds, nil
}

func (l *loader) decode(data []byte) (*model.RaceDataset, error) {
	ds := &model.RaceDataset{}
	if l.jsonPath != "" {
		root, err := l.selectRoot(data)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(oj.JSON(root)), ds); err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
		return ds, nil
	}
	var err error
	switch l.format {
	case FormatJSON:
		err = json.Unmarshal(data, ds)
	case FormatYAML:
		err = yaml.Unmarshal(data, ds)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

func (l *loader) selectRoot(data []byte) (any, error) {
	var obj any
	var err error
	switch l.format {
	case FormatJSON:
		obj, err = oj.Parse(data)
	case FormatYAML:
		err = yaml.Unmarshal(data, &obj)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	path, err := jp.ParseString(l.jsonPath)
	if err != nil {
		return nil, fmt.Errorf("parse json path %q: %w", l.jsonPath, err)
	}
	res := path.Get(obj)
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, l.jsonPath)
	}
	if len(res) > 1 {
		l.log.Warn("json path matched multiple nodes, using first",
			log.String("path", l.jsonPath), log.Int("matches", len(res)))
	}
	return res[0], nil
}

// normalize sets the competitor ids, derives missing position samples from
// the telemetry, completes pit stops and fills in missing best sector times.
func (l *loader) normalize(ds *model.RaceDataset) error {
	for id, c := range ds.Drivers {
		if c == nil {
			l.log.Warn("ignoring empty driver entry", log.String("id", id))
			delete(ds.Drivers, id)
		}
	}
	if len(ds.Drivers) == 0 {
		return ErrNoDrivers
	}
	for id, c := range ds.Drivers {
		c.ID = id
		if len(c.Positions) == 0 && len(c.Telemetry) > 0 {
			c.Positions = positionsFromTelemetry(c)
			l.log.Debug("positions derived from telemetry",
				log.String("id", id), log.Int("samples", len(c.Positions)))
		}
		for i := range c.PitStops {
			ps := &c.PitStops[i]
			if ps.Exit == 0 && ps.Enter > 0 {
				ps.Exit = ps.Enter + DefaultPitDuration
			}
		}
		if c.BestSectors.IsEmpty() {
			if pb := c.PersonalBests(); !pb.IsEmpty() {
				c.BestSectors = pb
			}
		}
	}
	if ds.BestSectors.IsEmpty() {
		if gb := ds.GlobalBests(); !gb.IsEmpty() {
			ds.BestSectors = gb
		}
	}
	return nil
}
