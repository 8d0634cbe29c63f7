// Package trackpb decodes the binary point-track feed.
//
// The payload is a protobuf ApiTrackResponse:
//
//	message ApiTrackResponse { int32 athleteId = 1; repeated ApiTrackPoint trackPoints = 2; }
//	message ApiTrackPoint {
//	  double timestamp = 1; float lat = 2; float lng = 3; float altitude = 4;
//	  float altitudeAgl = 5; optional string status = 6; float speed = 7; float verticalSpeed = 8;
//	}
package trackpb

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/okian/xalps/internal/domain/model"
)

// ErrMalformed is returned for payloads that are not a valid track message.
var ErrMalformed = errors.New("malformed track payload")

const (
	fieldAthleteID   protowire.Number = 1
	fieldTrackPoints protowire.Number = 2

	fieldTimestamp     protowire.Number = 1
	fieldLat           protowire.Number = 2
	fieldLng           protowire.Number = 3
	fieldAltitude      protowire.Number = 4
	fieldAltitudeAGL   protowire.Number = 5
	fieldStatus        protowire.Number = 6
	fieldSpeed         protowire.Number = 7
	fieldVerticalSpeed protowire.Number = 8
)

// Decode parses a track response. Unknown fields are skipped.
func Decode(b []byte) (model.Track, error) {
	var tr model.Track
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return model.Track{}, malformed("response tag", n)
		}
		b = b[n:]

		switch {
		case num == fieldAthleteID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return model.Track{}, malformed("athleteId", n)
			}
			tr.AthleteID = int32(v)
			b = b[n:]
		case num == fieldTrackPoints && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return model.Track{}, malformed("trackPoints", n)
			}
			p, err := decodePoint(raw)
			if err != nil {
				return model.Track{}, fmt.Errorf("point %d: %w", len(tr.Points), err)
			}
			tr.Points = append(tr.Points, p)
			b = b[n:]
		case num == fieldAthleteID || num == fieldTrackPoints:
			return model.Track{}, mistyped(num, typ)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return model.Track{}, malformed(fmt.Sprintf("field %d", num), n)
			}
			b = b[n:]
		}
	}
	return tr, nil
}

func decodePoint(b []byte) (model.TrackPoint, error) {
	var p model.TrackPoint
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, malformed("point tag", n)
		}
		b = b[n:]

		switch {
		case num == fieldTimestamp && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return p, malformed("timestamp", n)
			}
			p.Timestamp = math.Float64frombits(v)
			b = b[n:]
		case num == fieldStatus && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, malformed("status", n)
			}
			p.Status, p.HasStatus = string(v), true
			b = b[n:]
		case floatSlot(&p, num) != nil:
			if typ != protowire.Fixed32Type {
				return p, mistyped(num, typ)
			}
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return p, malformed(fmt.Sprintf("field %d", num), n)
			}
			*floatSlot(&p, num) = math.Float32frombits(v)
			b = b[n:]
		case num == fieldTimestamp || num == fieldStatus:
			return p, mistyped(num, typ)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return p, malformed(fmt.Sprintf("field %d", num), n)
			}
			b = b[n:]
		}
	}
	return p, nil
}

// floatSlot returns the float32 field for num, or nil.
func floatSlot(p *model.TrackPoint, num protowire.Number) *float32 {
	switch num {
	case fieldLat:
		return &p.Lat
	case fieldLng:
		return &p.Lng
	case fieldAltitude:
		return &p.Altitude
	case fieldAltitudeAGL:
		return &p.AltitudeAGL
	case fieldSpeed:
		return &p.Speed
	case fieldVerticalSpeed:
		return &p.VerticalSpeed
	default:
		return nil
	}
}

func mistyped(num protowire.Number, typ protowire.Type) error {
	return fmt.Errorf("%w: field %d has wire type %d", ErrMalformed, num, typ)
}

func malformed(what string, n int) error {
	return fmt.Errorf("%w: %s: %w", ErrMalformed, what, protowire.ParseError(n))
}

// Encode serializes a track in the feed's wire format.
func Encode(tr model.Track) []byte {
	var b []byte
	if tr.AthleteID != 0 {
		b = protowire.AppendTag(b, fieldAthleteID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(tr.AthleteID)))
	}
	for _, p := range tr.Points {
		b = protowire.AppendTag(b, fieldTrackPoints, protowire.BytesType)
		b = protowire.AppendBytes(b, encodePoint(p))
	}
	return b
}

func encodePoint(p model.TrackPoint) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldTimestamp, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(p.Timestamp))
	for _, f := range []struct {
		num protowire.Number
		val float32
	}{
		{fieldLat, p.Lat},
		{fieldLng, p.Lng},
		{fieldAltitude, p.Altitude},
		{fieldAltitudeAGL, p.AltitudeAGL},
		{fieldSpeed, p.Speed},
		{fieldVerticalSpeed, p.VerticalSpeed},
	} {
		b = protowire.AppendTag(b, f.num, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(f.val))
	}
	if p.HasStatus {
		b = protowire.AppendTag(b, fieldStatus, protowire.BytesType)
		b = protowire.AppendString(b, p.Status)
	}
	return b
}
