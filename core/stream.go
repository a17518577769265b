package core

import (
	"fmt"

	"github.com/tsawler/udf/internal/filters"
)

// Stream represents a PDF stream object. Length is filled in when the
// stream is written.
type Stream struct {
	Dict Dict
	Data []byte
}

// NewStream returns an uncompressed stream.
func NewStream(dict Dict, data []byte) *Stream {
	if dict == nil {
		dict = Dict{}
	}
	return &Stream{Dict: dict, Data: data}
}

// NewFlateStream compresses data with FlateDecode. params, when not nil,
// selects a predictor and is recorded as DecodeParms.
func NewFlateStream(dict Dict, data []byte, params filters.Params) (*Stream, error) {
	encoded, err := filters.FlateEncode(data, params)
	if err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}

	s := NewStream(dict, encoded)
	s.Dict["Filter"] = Name("FlateDecode")
	if len(params) > 0 {
		parms := Dict{}
		for k, v := range params {
			if n, ok := v.(int); ok {
				parms[k] = Int(n)
			}
		}
		s.Dict["DecodeParms"] = parms
	}
	return s, nil
}

func (s *Stream) Type() ObjectType { return ObjStream }

// String returns the stream dictionary with its Length followed by the
// data.
func (s *Stream) String() string {
	d := make(Dict, len(s.Dict)+1)
	for k, v := range s.Dict {
		d[k] = v
	}
	d["Length"] = Int(len(s.Data))
	return d.String() + "\nstream\n" + string(s.Data) + "\nendstream"
}

// Decode returns the stream data with its filter removed. Only
// FlateDecode and unfiltered streams are supported.
func (s *Stream) Decode() ([]byte, error) {
	filter, ok := s.Dict.GetName("Filter")
	if !ok {
		return s.Data, nil
	}
	if filter != "FlateDecode" {
		return nil, fmt.Errorf("unsupported filter: %s", filter)
	}

	var params filters.Params
	if parms, ok := s.Dict.GetDict("DecodeParms"); ok {
		params = filters.Params{}
		for k, v := range parms {
			if n, ok := v.(Int); ok {
				params[k] = int(n)
			}
		}
	}
	return filters.FlateDecode(s.Data, params)
}
