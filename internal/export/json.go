package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
)

type jsonObject struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

type jsonFrame struct {
	Index   int          `json:"index"`
	Time    float64      `json:"time"`
	Objects []jsonObject `json:"objects"`
}

type jsonSample struct {
	Time    float64 `json:"time"`
	Count   int     `json:"count"`
	Kinetic float64 `json:"kinetic"`
}

type jsonRun struct {
	Metadata storage.RunMetadata `json:"metadata"`
	Series   []jsonSample        `json:"series"`
	Frames   []jsonFrame         `json:"frames"`
}

// WriteJSON writes a run as one indented document with colors as hex.
func WriteJSON(w io.Writer, meta storage.RunMetadata, series []sim.Sample, frames []sim.Frame) error {
	out := jsonRun{
		Metadata: meta,
		Series:   make([]jsonSample, len(series)),
		Frames:   make([]jsonFrame, len(frames)),
	}
	for i, s := range series {
		out.Series[i] = jsonSample{Time: s.Time, Count: s.Count, Kinetic: s.Kinetic}
	}
	for i, f := range frames {
		jf := jsonFrame{Index: f.Index, Time: f.Time, Objects: make([]jsonObject, len(f.Objects))}
		for k, o := range f.Objects {
			jf.Objects[k] = jsonObject{X: o.X, Y: o.Y, Radius: o.Radius, Color: Hex(o.Color)}
		}
		out.Frames[i] = jf
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
