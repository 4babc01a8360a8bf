package storage

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"google.golang.org/protobuf/encoding/protowire"

	"plum/internal/lint"
)

// Payload layout, protobuf wire format:
//
//	1: repeated diagnostic (bytes)
//
// diagnostic:
//
//	1: line (varint)
//	2: severity level (varint)
//	3: severity text (string)
//	4: rule id (string)
//	5: message (string)
const (
	fieldDiagnostic protowire.Number = 1

	fieldLine    protowire.Number = 1
	fieldLevel   protowire.Number = 2
	fieldText    protowire.Number = 3
	fieldRule    protowire.Number = 4
	fieldMessage protowire.Number = 5
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	decoder, _ = zstd.NewReader(nil)
)

var errMalformed = errors.New("malformed cache payload")

// encodeDiagnostics serializes and compresses diags. File names are not
// stored, the row key carries them. A clean file encodes to an empty,
// non-nil payload.
func encodeDiagnostics(diags []lint.Diagnostic) []byte {
	if len(diags) == 0 {
		return []byte{}
	}
	var buf []byte
	for _, d := range diags {
		var m []byte
		m = protowire.AppendTag(m, fieldLine, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(d.Line))
		m = protowire.AppendTag(m, fieldLevel, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(d.Severity.Level))
		if d.Severity.Text != "" {
			m = protowire.AppendTag(m, fieldText, protowire.BytesType)
			m = protowire.AppendString(m, d.Severity.Text)
		}
		m = protowire.AppendTag(m, fieldRule, protowire.BytesType)
		m = protowire.AppendString(m, d.RuleID)
		m = protowire.AppendTag(m, fieldMessage, protowire.BytesType)
		m = protowire.AppendString(m, d.Message)

		buf = protowire.AppendTag(buf, fieldDiagnostic, protowire.BytesType)
		buf = protowire.AppendBytes(buf, m)
	}
	return encoder.EncodeAll(buf, nil)
}

func decodeDiagnostics(file string, payload []byte) ([]lint.Diagnostic, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	buf, err := decoder.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	var out []lint.Diagnostic
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, errMalformed
		}
		buf = buf[n:]
		if num != fieldDiagnostic || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return nil, errMalformed
			}
			buf = buf[n:]
			continue
		}
		m, n := protowire.ConsumeBytes(buf)
		if n < 0 {
			return nil, errMalformed
		}
		buf = buf[n:]
		d, err := decodeDiagnostic(m)
		if err != nil {
			return nil, err
		}
		d.File = file
		out = append(out, d)
	}
	return out, nil
}

func decodeDiagnostic(m []byte) (lint.Diagnostic, error) {
	var d lint.Diagnostic
	for len(m) > 0 {
		num, typ, n := protowire.ConsumeTag(m)
		if n < 0 {
			return d, errMalformed
		}
		m = m[n:]
		switch {
		case typ == protowire.VarintType && (num == fieldLine || num == fieldLevel):
			v, n := protowire.ConsumeVarint(m)
			if n < 0 {
				return d, errMalformed
			}
			m = m[n:]
			if num == fieldLine {
				d.Line = int(v)
			} else {
				d.Severity.Level = lint.Level(v)
			}
		case typ == protowire.BytesType && (num == fieldText || num == fieldRule || num == fieldMessage):
			s, n := protowire.ConsumeString(m)
			if n < 0 {
				return d, errMalformed
			}
			m = m[n:]
			switch num {
			case fieldText:
				d.Severity.Text = s
			case fieldRule:
				d.RuleID = s
			default:
				d.Message = s
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, m)
			if n < 0 {
				return d, errMalformed
			}
			m = m[n:]
		}
	}
	return d, nil
}
