package stat

import (
	"encoding/json"

	"adgate/go-client/internal/securestore"
)

type runningJSON struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"m2"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (r Running) MarshalJSON() ([]byte, error) {
	return json.Marshal(runningJSON{
		Count: r.Count,
		Mean:  r.Mean,
		M2:    r.m2,
		Min:   r.Min,
		Max:   r.Max,
	})
}

func (r *Running) UnmarshalJSON(data []byte) error {
	var raw runningJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Count = raw.Count
	r.Mean = raw.Mean
	r.m2 = raw.M2
	r.Min = raw.Min
	r.Max = raw.Max
	return nil
}

// Stats pairs a running accumulator with a bucket tally over the same stream.
type Stats struct {
	Running Running `json:"running"`
	Bins    *Bins   `json:"bins,omitempty"`
}

// NewStats creates a combined accumulator; boundaries may be nil to skip
// bucketing.
func NewStats(boundaries []float64) (*Stats, error) {
	s := &Stats{}
	if len(boundaries) > 0 {
		bins, err := NewBins(boundaries)
		if err != nil {
			return nil, err
		}
		s.Bins = bins
	}
	return s, nil
}

func (s *Stats) Add(x float64) {
	s.Running.Add(x)
	if s.Bins != nil {
		s.Bins.Add(x)
	}
}

// Save persists an encrypted snapshot.
func (s *Stats) Save(path, secret string) error {
	return securestore.WriteEncryptedJSON(path, secret, s)
}

// LoadStats restores a snapshot persisted by Save.
func LoadStats(path, secret string) (*Stats, error) {
	raw, err := securestore.ReadDecryptedFile(path, secret)
	if err != nil {
		return nil, err
	}
	var s Stats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
