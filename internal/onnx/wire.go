package onnx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Unmarshal decodes an ONNX ModelProto from its protobuf wire-format bytes.
// There is no protoc-generated onnx.pb.go in this module's dependency
// tree, so ModelProto does not implement proto.Message and
// google.golang.org/protobuf/proto can't be used here; this is a small
// field-by-field wire decoder instead, the same approach a hand-rolled
// ONNX reader without protoc takes.
func Unmarshal(data []byte, model *ModelProto) error {
	d := &decoder{data: data}
	return d.readModelProto(model)
}

// Marshal encodes an ONNX ModelProto to protobuf wire-format bytes. It is
// the write-side counterpart of Unmarshal and only needs to round-trip the
// fields this package itself reads.
func Marshal(model *ModelProto) ([]byte, error) {
	e := &encoder{}
	e.writeModelProto(model)
	return e.buf, nil
}

// Protobuf wire types.
const (
	wireVarint = 0
	wire64Bit  = 1
	wireBytes  = 2
	wire32Bit  = 5
)

// decoder implements a minimal protobuf wire-format reader.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) readModelProto(m *ModelProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			m.IrVersion = &v
		case 2:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.ProducerName = &s
		case 3:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.ProducerVersion = &s
		case 4:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Domain = &s
		case 5:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			m.ModelVersion = &v
		case 6:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.DocString = &s
		case 7:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			m.Graph = &GraphProto{}
			if err := sub.readGraphProto(m.Graph); err != nil {
				return err
			}
		case 8:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			opset := &OperatorSetIdProto{}
			if err := sub.readOperatorSetIdProto(opset); err != nil {
				return err
			}
			m.OpsetImport = append(m.OpsetImport, opset)
		case 14:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			entry := &StringStringEntryProto{}
			if err := sub.readStringStringEntryProto(entry); err != nil {
				return err
			}
			m.MetadataProps = append(m.MetadataProps, entry)
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readGraphProto(m *GraphProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			node := &NodeProto{}
			if err := sub.readNodeProto(node); err != nil {
				return err
			}
			m.Node = append(m.Node, node)
		case 2:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Name = &s
		case 5:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			tensor := &TensorProto{}
			if err := sub.readTensorProto(tensor); err != nil {
				return err
			}
			m.Initializer = append(m.Initializer, tensor)
		case 11:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			vi := &ValueInfoProto{}
			if err := sub.readValueInfoProto(vi); err != nil {
				return err
			}
			m.Input = append(m.Input, vi)
		case 12:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			vi := &ValueInfoProto{}
			if err := sub.readValueInfoProto(vi); err != nil {
				return err
			}
			m.Output = append(m.Output, vi)
		case 13:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			vi := &ValueInfoProto{}
			if err := sub.readValueInfoProto(vi); err != nil {
				return err
			}
			m.ValueInfo = append(m.ValueInfo, vi)
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readNodeProto(m *NodeProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Input = append(m.Input, s)
		case 2:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Output = append(m.Output, s)
		case 3:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Name = &s
		case 4:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.OpType = &s
		case 5:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			attr := &AttributeProto{}
			if err := sub.readAttributeProto(attr); err != nil {
				return err
			}
			m.Attribute = append(m.Attribute, attr)
		case 7:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Domain = &s
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readTensorProto(m *TensorProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			if wireType == wireBytes {
				packed, err := d.readBytes()
				if err != nil {
					return err
				}
				sub := &decoder{data: packed}
				for sub.pos < len(sub.data) {
					v, err := sub.readVarint()
					if err != nil {
						break
					}
					m.Dims = append(m.Dims, v)
				}
				continue
			}
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			m.Dims = append(m.Dims, v)
		case 2:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			dt := int32(v)
			m.DataType = &dt
		case 4:
			packed, err := d.readBytes()
			if err != nil {
				return err
			}
			for i := 0; i+4 <= len(packed); i += 4 {
				bits := binary.LittleEndian.Uint32(packed[i:])
				m.FloatData = append(m.FloatData, math.Float32frombits(bits))
			}
		case 5:
			packed, err := d.readBytes()
			if err != nil {
				return err
			}
			sub := &decoder{data: packed}
			for sub.pos < len(sub.data) {
				v, err := sub.readVarint()
				if err != nil {
					break
				}
				m.Int32Data = append(m.Int32Data, int32(v))
			}
		case 7:
			packed, err := d.readBytes()
			if err != nil {
				return err
			}
			sub := &decoder{data: packed}
			for sub.pos < len(sub.data) {
				v, err := sub.readVarint()
				if err != nil {
					break
				}
				m.Int64Data = append(m.Int64Data, v)
			}
		case 8:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Name = &s
		case 9:
			raw, err := d.readBytes()
			if err != nil {
				return err
			}
			m.RawData = raw
		case 13:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			entry := &StringStringEntryProto{}
			if err := sub.readStringStringEntryProto(entry); err != nil {
				return err
			}
			m.ExternalData = append(m.ExternalData, entry)
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readValueInfoProto(m *ValueInfoProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Name = &s
		case 2:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			m.Type = &TypeProto{}
			if err := sub.readTypeProto(m.Type); err != nil {
				return err
			}
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readTypeProto(m *TypeProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			tt := &TypeProto_Tensor{}
			if err := sub.readTypeProtoTensor(tt); err != nil {
				return err
			}
			m.Value = &TypeProto_TensorType{TensorType: tt}
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readTypeProtoTensor(m *TypeProto_Tensor) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			et := int32(v)
			m.ElemType = &et
		case 2:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			m.Shape = &TensorShapeProto{}
			if err := sub.readTensorShapeProto(m.Shape); err != nil {
				return err
			}
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readTensorShapeProto(m *TensorShapeProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			dim := &TensorShapeProto_Dimension{}
			if err := sub.readDimension(dim); err != nil {
				return err
			}
			m.Dim = append(m.Dim, dim)
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readDimension(m *TensorShapeProto_Dimension) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			m.Value = &TensorShapeProto_Dimension_DimValue{DimValue: v}
		case 2:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Value = &TensorShapeProto_Dimension_DimParam{DimParam: s}
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readAttributeProto(m *AttributeProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Name = &s
		case 2:
			f, err := d.readFloat32()
			if err != nil {
				return err
			}
			m.F = &f
		case 3:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			m.I = &v
		case 4:
			s, err := d.readBytes()
			if err != nil {
				return err
			}
			m.S = s
		case 5:
			sub, err := d.readSubMessage()
			if err != nil {
				return err
			}
			t := &TensorProto{}
			if err := sub.readTensorProto(t); err != nil {
				return err
			}
			m.T = t
		case 7:
			packed, err := d.readBytes()
			if err != nil {
				return err
			}
			for i := 0; i+4 <= len(packed); i += 4 {
				bits := binary.LittleEndian.Uint32(packed[i:])
				m.Floats = append(m.Floats, math.Float32frombits(bits))
			}
		case 8:
			packed, err := d.readBytes()
			if err != nil {
				return err
			}
			sub := &decoder{data: packed}
			for sub.pos < len(sub.data) {
				v, err := sub.readVarint()
				if err != nil {
					break
				}
				m.Ints = append(m.Ints, v)
			}
		case 9:
			s, err := d.readBytes()
			if err != nil {
				return err
			}
			m.Strings = append(m.Strings, s)
		case 20:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			t := AttributeProto_AttributeType(v)
			m.Type = &t
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readOperatorSetIdProto(m *OperatorSetIdProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Domain = &s
		case 2:
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			m.Version = &v
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readStringStringEntryProto(m *StringStringEntryProto) error {
	for d.pos < len(d.data) {
		fieldNum, wireType, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch fieldNum {
		case 1:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Key = &s
		case 2:
			s, err := d.readString()
			if err != nil {
				return err
			}
			m.Value = &s
		default:
			if err := d.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readTag() (fieldNum, wireType int, err error) {
	if d.pos >= len(d.data) {
		return 0, 0, io.EOF
	}
	tag, err := d.readVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(tag >> 3), int(tag & 0x7), nil
}

func (d *decoder) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if d.pos >= len(d.data) {
			return 0, io.EOF
		}
		b := d.data[d.pos]
		d.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("onnx: varint overflow")
		}
	}
	return int64(result), nil
}

func (d *decoder) readBytes() ([]byte, error) {
	length, err := d.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("onnx: negative length-delimited field")
	}
	end := d.pos + int(length)
	if end > len(d.data) {
		return nil, io.ErrUnexpectedEOF
	}
	result := d.data[d.pos:end]
	d.pos = end
	return result, nil
}

func (d *decoder) readString() (string, error) {
	b, err := d.readBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) readSubMessage() (*decoder, error) {
	b, err := d.readBytes()
	if err != nil {
		return nil, err
	}
	return &decoder{data: b}, nil
}

func (d *decoder) readFloat32() (float32, error) {
	if d.pos+4 > len(d.data) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return math.Float32frombits(bits), nil
}

func (d *decoder) skipField(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := d.readVarint()
		return err
	case wire64Bit:
		if d.pos+8 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 8
		return nil
	case wireBytes:
		_, err := d.readBytes()
		return err
	case wire32Bit:
		if d.pos+4 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("onnx: unknown wire type %d", wireType)
	}
}

// encoder implements a minimal protobuf wire-format writer, the encode-side
// mirror of decoder.
type encoder struct {
	buf []byte
}

func (e *encoder) writeTag(fieldNum, wireType int) {
	e.writeVarint(int64(fieldNum)<<3 | int64(wireType))
}

func (e *encoder) writeVarint(v int64) {
	u := uint64(v)
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			e.buf = append(e.buf, b|0x80)
		} else {
			e.buf = append(e.buf, b)
			break
		}
	}
}

func (e *encoder) writeBytesField(fieldNum int, b []byte) {
	e.writeTag(fieldNum, wireBytes)
	e.writeVarint(int64(len(b)))
	e.buf = append(e.buf, b...)
}

func (e *encoder) writeStringField(fieldNum int, s string) {
	e.writeBytesField(fieldNum, []byte(s))
}

func (e *encoder) writeVarintField(fieldNum int, v int64) {
	e.writeTag(fieldNum, wireVarint)
	e.writeVarint(v)
}

func (e *encoder) writeFloat32Field(fieldNum int, f float32) {
	e.writeTag(fieldNum, wire32Bit)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) writeSubMessageField(fieldNum int, sub *encoder) {
	e.writeBytesField(fieldNum, sub.buf)
}

func (e *encoder) writeModelProto(m *ModelProto) {
	if m == nil {
		return
	}
	if m.IrVersion != nil {
		e.writeVarintField(1, *m.IrVersion)
	}
	if m.ProducerName != nil {
		e.writeStringField(2, *m.ProducerName)
	}
	if m.ProducerVersion != nil {
		e.writeStringField(3, *m.ProducerVersion)
	}
	if m.Domain != nil {
		e.writeStringField(4, *m.Domain)
	}
	if m.ModelVersion != nil {
		e.writeVarintField(5, *m.ModelVersion)
	}
	if m.DocString != nil {
		e.writeStringField(6, *m.DocString)
	}
	if m.Graph != nil {
		sub := &encoder{}
		sub.writeGraphProto(m.Graph)
		e.writeSubMessageField(7, sub)
	}
	for _, opset := range m.OpsetImport {
		sub := &encoder{}
		sub.writeOperatorSetIdProto(opset)
		e.writeSubMessageField(8, sub)
	}
	for _, entry := range m.MetadataProps {
		sub := &encoder{}
		sub.writeStringStringEntryProto(entry)
		e.writeSubMessageField(14, sub)
	}
}

func (e *encoder) writeGraphProto(m *GraphProto) {
	for _, node := range m.Node {
		sub := &encoder{}
		sub.writeNodeProto(node)
		e.writeSubMessageField(1, sub)
	}
	if m.Name != nil {
		e.writeStringField(2, *m.Name)
	}
	for _, tensor := range m.Initializer {
		sub := &encoder{}
		sub.writeTensorProto(tensor)
		e.writeSubMessageField(5, sub)
	}
	for _, vi := range m.Input {
		sub := &encoder{}
		sub.writeValueInfoProto(vi)
		e.writeSubMessageField(11, sub)
	}
	for _, vi := range m.Output {
		sub := &encoder{}
		sub.writeValueInfoProto(vi)
		e.writeSubMessageField(12, sub)
	}
	for _, vi := range m.ValueInfo {
		sub := &encoder{}
		sub.writeValueInfoProto(vi)
		e.writeSubMessageField(13, sub)
	}
}

func (e *encoder) writeNodeProto(m *NodeProto) {
	for _, s := range m.Input {
		e.writeStringField(1, s)
	}
	for _, s := range m.Output {
		e.writeStringField(2, s)
	}
	if m.Name != nil {
		e.writeStringField(3, *m.Name)
	}
	if m.OpType != nil {
		e.writeStringField(4, *m.OpType)
	}
	for _, attr := range m.Attribute {
		sub := &encoder{}
		sub.writeAttributeProto(attr)
		e.writeSubMessageField(5, sub)
	}
	if m.Domain != nil {
		e.writeStringField(7, *m.Domain)
	}
}

func (e *encoder) writeTensorProto(m *TensorProto) {
	for _, d := range m.Dims {
		e.writeVarintField(1, d)
	}
	if m.DataType != nil {
		e.writeVarintField(2, int64(*m.DataType))
	}
	if len(m.FloatData) > 0 {
		packed := make([]byte, 0, len(m.FloatData)*4)
		for _, f := range m.FloatData {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
			packed = append(packed, b[:]...)
		}
		e.writeBytesField(4, packed)
	}
	if len(m.Int32Data) > 0 {
		sub := &encoder{}
		for _, v := range m.Int32Data {
			sub.writeVarint(int64(v))
		}
		e.writeBytesField(5, sub.buf)
	}
	if len(m.Int64Data) > 0 {
		sub := &encoder{}
		for _, v := range m.Int64Data {
			sub.writeVarint(v)
		}
		e.writeBytesField(7, sub.buf)
	}
	if m.Name != nil {
		e.writeStringField(8, *m.Name)
	}
	if m.RawData != nil {
		e.writeBytesField(9, m.RawData)
	}
	for _, entry := range m.ExternalData {
		sub := &encoder{}
		sub.writeStringStringEntryProto(entry)
		e.writeSubMessageField(13, sub)
	}
}

func (e *encoder) writeValueInfoProto(m *ValueInfoProto) {
	if m.Name != nil {
		e.writeStringField(1, *m.Name)
	}
	if m.Type != nil {
		sub := &encoder{}
		sub.writeTypeProto(m.Type)
		e.writeSubMessageField(2, sub)
	}
}

func (e *encoder) writeTypeProto(m *TypeProto) {
	if tt, ok := m.Value.(*TypeProto_TensorType); ok && tt.TensorType != nil {
		sub := &encoder{}
		sub.writeTypeProtoTensor(tt.TensorType)
		e.writeSubMessageField(1, sub)
	}
}

func (e *encoder) writeTypeProtoTensor(m *TypeProto_Tensor) {
	if m.ElemType != nil {
		e.writeVarintField(1, int64(*m.ElemType))
	}
	if m.Shape != nil {
		sub := &encoder{}
		sub.writeTensorShapeProto(m.Shape)
		e.writeSubMessageField(2, sub)
	}
}

func (e *encoder) writeTensorShapeProto(m *TensorShapeProto) {
	for _, dim := range m.Dim {
		sub := &encoder{}
		sub.writeDimension(dim)
		e.writeSubMessageField(1, sub)
	}
}

func (e *encoder) writeDimension(m *TensorShapeProto_Dimension) {
	switch v := m.Value.(type) {
	case *TensorShapeProto_Dimension_DimValue:
		e.writeVarintField(1, v.DimValue)
	case *TensorShapeProto_Dimension_DimParam:
		e.writeStringField(2, v.DimParam)
	}
}

func (e *encoder) writeAttributeProto(m *AttributeProto) {
	if m.Name != nil {
		e.writeStringField(1, *m.Name)
	}
	if m.F != nil {
		e.writeFloat32Field(2, *m.F)
	}
	if m.I != nil {
		e.writeVarintField(3, *m.I)
	}
	if m.S != nil {
		e.writeBytesField(4, m.S)
	}
	if m.T != nil {
		sub := &encoder{}
		sub.writeTensorProto(m.T)
		e.writeSubMessageField(5, sub)
	}
	if len(m.Floats) > 0 {
		packed := make([]byte, 0, len(m.Floats)*4)
		for _, f := range m.Floats {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
			packed = append(packed, b[:]...)
		}
		e.writeBytesField(7, packed)
	}
	if len(m.Ints) > 0 {
		sub := &encoder{}
		for _, v := range m.Ints {
			sub.writeVarint(v)
		}
		e.writeBytesField(8, sub.buf)
	}
	for _, s := range m.Strings {
		e.writeBytesField(9, s)
	}
	if m.Type != nil {
		e.writeVarintField(20, int64(*m.Type))
	}
}

func (e *encoder) writeOperatorSetIdProto(m *OperatorSetIdProto) {
	if m.Domain != nil {
		e.writeStringField(1, *m.Domain)
	}
	if m.Version != nil {
		e.writeVarintField(2, *m.Version)
	}
}

func (e *encoder) writeStringStringEntryProto(m *StringStringEntryProto) {
	if m.Key != nil {
		e.writeStringField(1, *m.Key)
	}
	if m.Value != nil {
		e.writeStringField(2, *m.Value)
	}
}
