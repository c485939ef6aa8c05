package core

import (
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the types that reach storage.
// The layouts are flat and append-only friendly: strings and varints only,
// timestamps as Unix microseconds, floats as raw bits.

// ModeMUS serializes a Mode.
var ModeMUS = modeSer{}

// DocumentMUS serializes a Document.
var DocumentMUS = documentSer{}

// RetrievalLogEntryMUS serializes a RetrievalLogEntry.
var RetrievalLogEntryMUS = retrievalLogEntrySer{}

// HistoryMUS serializes a query-history snapshot.
var HistoryMUS = stringSliceSer{}

type modeSer struct{}

func (modeSer) Marshal(m Mode, bs []byte) int {
	return ord.String.Marshal(string(m), bs)
}

func (modeSer) Unmarshal(bs []byte) (Mode, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	return Mode(s), n, err
}

func (modeSer) Size(m Mode) int {
	return ord.String.Size(string(m))
}

type stringSliceSer struct{}

func (stringSliceSer) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return
}

func (stringSliceSer) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		return nil, n, ErrNegativeLength
	}
	var n1 int
	if length > 0 {
		v = make([]string, length)
	}
	for i := 0; i < length; i++ {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return
}

func (stringSliceSer) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return
}

type float64Ser struct{}

func (float64Ser) Marshal(v float64, bs []byte) int {
	return varint.Uint64.Marshal(math.Float64bits(v), bs)
}

func (float64Ser) Unmarshal(bs []byte) (float64, int, error) {
	bits, n, err := varint.Uint64.Unmarshal(bs)
	return math.Float64frombits(bits), n, err
}

func (float64Ser) Size(v float64) int {
	return varint.Uint64.Size(math.Float64bits(v))
}

var f64 = float64Ser{}

type vectorSer struct{}

func (vectorSer) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Uint32.Marshal(math.Float32bits(f), bs[n:])
	}
	return
}

func (vectorSer) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		return nil, n, ErrNegativeLength
	}
	var (
		bits uint32
		n1   int
	)
	if length > 0 {
		v = make([]float32, length)
	}
	for i := 0; i < length; i++ {
		bits, n1, err = varint.Uint32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		v[i] = math.Float32frombits(bits)
	}
	return
}

func (vectorSer) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Uint32.Size(math.Float32bits(f))
	}
	return
}

var vec = vectorSer{}

type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

var tsMicro = timeSer{}

type documentSer struct{}

func (documentSer) Marshal(d Document, bs []byte) (n int) {
	n = ord.String.Marshal(d.GID, bs)
	n += varint.Int.Marshal(d.PageNo, bs[n:])
	n += ord.String.Marshal(d.Title, bs[n:])
	n += ord.String.Marshal(d.Body, bs[n:])
	n += ord.String.Marshal(d.EntityType, bs[n:])
	n += ord.String.Marshal(d.EntityValue, bs[n:])
	n += HistoryMUS.Marshal(d.Links, bs[n:])
	n += vec.Marshal(d.Vector, bs[n:])
	n += tsMicro.Marshal(d.InsertedAt, bs[n:])
	n += tsMicro.Marshal(d.UpdatedAt, bs[n:])
	return
}

func (documentSer) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	if d.GID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if d.PageNo, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Body, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.EntityType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.EntityValue, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Links, n1, err = HistoryMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Vector, n1, err = vec.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.InsertedAt, n1, err = tsMicro.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.UpdatedAt, n1, err = tsMicro.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	return
}

func (documentSer) Size(d Document) (size int) {
	size = ord.String.Size(d.GID)
	size += varint.Int.Size(d.PageNo)
	size += ord.String.Size(d.Title)
	size += ord.String.Size(d.Body)
	size += ord.String.Size(d.EntityType)
	size += ord.String.Size(d.EntityValue)
	size += HistoryMUS.Size(d.Links)
	size += vec.Size(d.Vector)
	size += tsMicro.Size(d.InsertedAt)
	size += tsMicro.Size(d.UpdatedAt)
	return
}

type retrievalResultSer struct{}

func (retrievalResultSer) Marshal(r RetrievalResult, bs []byte) (n int) {
	n = ord.String.Marshal(r.GID, bs)
	n += ord.String.Marshal(r.Title, bs[n:])
	n += f64.Marshal(r.Score, bs[n:])
	return
}

func (retrievalResultSer) Unmarshal(bs []byte) (r RetrievalResult, n int, err error) {
	var n1 int
	if r.GID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if r.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Score, n1, err = f64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	return
}

func (retrievalResultSer) Size(r RetrievalResult) int {
	return ord.String.Size(r.GID) + ord.String.Size(r.Title) + f64.Size(r.Score)
}

var retRes = retrievalResultSer{}

type retrievalLogEntrySer struct{}

func (retrievalLogEntrySer) Marshal(e RetrievalLogEntry, bs []byte) (n int) {
	n = ord.String.Marshal(e.Query, bs)
	n += ModeMUS.Marshal(e.Mode, bs[n:])
	n += varint.Int.Marshal(e.ResultCount, bs[n:])
	n += varint.Int64.Marshal(e.ElapsedMs, bs[n:])
	n += tsMicro.Marshal(e.Timestamp, bs[n:])
	n += varint.Int.Marshal(len(e.Results), bs[n:])
	for _, r := range e.Results {
		n += retRes.Marshal(r, bs[n:])
	}
	return
}

func (retrievalLogEntrySer) Unmarshal(bs []byte) (e RetrievalLogEntry, n int, err error) {
	var n1 int
	if e.Query, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if e.Mode, n1, err = ModeMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.ResultCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.ElapsedMs, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Timestamp, n1, err = tsMicro.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	var length int
	if length, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if length < 0 {
		return e, n, ErrNegativeLength
	}
	if length > 0 {
		e.Results = make([]RetrievalResult, length)
	}
	for i := 0; i < length; i++ {
		if e.Results[i], n1, err = retRes.Unmarshal(bs[n:]); err != nil {
			return e, n + n1, err
		}
		n += n1
	}
	return
}

func (retrievalLogEntrySer) Size(e RetrievalLogEntry) (size int) {
	size = ord.String.Size(e.Query)
	size += ModeMUS.Size(e.Mode)
	size += varint.Int.Size(e.ResultCount)
	size += varint.Int64.Size(e.ElapsedMs)
	size += tsMicro.Size(e.Timestamp)
	size += varint.Int.Size(len(e.Results))
	for _, r := range e.Results {
		size += retRes.Size(r)
	}
	return
}
