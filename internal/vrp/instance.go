package vrp

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

var (
	// ErrNoDepot is returned when an instance has no coordinates for node 0.
	ErrNoDepot = errors.New("vrp: instance has no depot coordinates")
	// ErrUnknownNode is returned when a route references a node without coordinates.
	ErrUnknownNode = errors.New("vrp: unknown node")
	// ErrBadCoordinate is returned for NaN or infinite coordinates.
	ErrBadCoordinate = errors.New("vrp: coordinate is not finite")
	// ErrNegativeDemand is returned for a negative customer demand.
	ErrNegativeDemand = errors.New("vrp: negative demand")
	// ErrDemandExceedsCapacity is returned when one customer alone overflows a vehicle.
	ErrDemandExceedsCapacity = errors.New("vrp: demand exceeds vehicle capacity")
	// ErrUnsupportedFormat is returned by LoadInstance for unknown file extensions.
	ErrUnsupportedFormat = errors.New("vrp: unsupported instance format")
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Instance describes a capacitated VRP over points in the plane.
type Instance struct {
	Name     string          `json:"name" yaml:"name"`
	Coords   map[int]Point   `json:"coords" yaml:"coords"`
	Demand   map[int]float64 `json:"demand,omitempty" yaml:"demand,omitempty"`
	Capacity float64         `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// LoadInstance reads an instance from a .json, .yaml or .yml file and validates it.
func LoadInstance(path string) (*Instance, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	var inst Instance
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &inst)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &inst)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode instance: %w", err)
	}
	if inst.Name == "" {
		inst.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &inst, nil
}

// Validate checks the depot, coordinates, demands and capacity.
func (in *Instance) Validate() error {
	if _, ok := in.Coords[Depot]; !ok {
		return ErrNoDepot
	}
	for id, p := range in.Coords {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: node %d", ErrBadCoordinate, id)
		}
	}
	for id, d := range in.Demand {
		if _, ok := in.Coords[id]; !ok {
			return fmt.Errorf("%w: demand for node %d", ErrUnknownNode, id)
		}
		if d < 0 || math.IsNaN(d) {
			return fmt.Errorf("%w: node %d", ErrNegativeDemand, id)
		}
		if in.Capacity > 0 && d > in.Capacity {
			return fmt.Errorf("%w: node %d demands %g, capacity %g", ErrDemandExceedsCapacity, id, d, in.Capacity)
		}
	}
	if in.Capacity < 0 {
		return fmt.Errorf("vrp: negative capacity %g", in.Capacity)
	}
	return nil
}

// Customers returns every non-depot node id in ascending order.
func (in *Instance) Customers() []int {
	out := make([]int, 0, len(in.Coords))
	for id := range in.Coords {
		if id != Depot {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// Distance returns the Euclidean distance between i and j.
func (in *Instance) Distance(i, j int) (float64, error) {
	a, ok := in.Coords[i]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, i)
	}
	b, ok := in.Coords[j]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, j)
	}
	return math.Hypot(a.X-b.X, a.Y-b.Y), nil
}

// Load sums the demand of the customers on r.
func (in *Instance) Load(r Route) float64 {
	var sum float64
	for _, c := range r.Customers() {
		sum += in.Demand[c]
	}
	return sum
}

// distanceTable is a dense copy of pairwise distances indexed by position
// in ids; solvers use it to keep map lookups out of the inner loops.
type distanceTable struct {
	ids   []int
	index map[int]int
	w     []float64
}

func newDistanceTable(in *Instance) *distanceTable {
	ids := append([]int{Depot}, in.Customers()...)
	n := len(ids)
	t := &distanceTable{ids: ids, index: make(map[int]int, n), w: make([]float64, n*n)}
	for i, id := range ids {
		t.index[id] = i
	}
	for i := 0; i < n; i++ {
		a := in.Coords[ids[i]]
		for j := i + 1; j < n; j++ {
			b := in.Coords[ids[j]]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			t.w[i*n+j] = d
			t.w[j*n+i] = d
		}
	}
	return t
}

func (t *distanceTable) at(u, v int) float64 {
	return t.w[t.index[u]*len(t.ids)+t.index[v]]
}
