package group

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// Field identifies the part of a member assignment payload that failed to decode.
type Field string

const (
	FieldVersion         Field = "version"
	FieldTopicCount      Field = "topic count"
	FieldTopicNameLength Field = "topic name length"
	FieldTopicName       Field = "topic name"
	FieldPartitionCount  Field = "partition count"
	FieldPartitionValue  Field = "partition value"
)

// DecodeError reports a malformed member assignment payload. It carries the
// field that was being read when decoding failed so that a bad member can be
// reported precisely without aborting the rest of a group describe.
type DecodeError struct {
	Field Field
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode member assignment at %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeMemberAssignment decodes the binary member assignment that the group
// coordinator returns for each member of a consumer group. The payload is
// big-endian with no padding:
//
//	int16 version (ignored)
//	int32 topic count
//	per topic: int16 name length, name bytes (UTF-8),
//	           int32 partition count, int32 partition IDs
//
// Decoding is strictly sequential and fails closed: a short buffer, a
// negative count or invalid UTF-8 aborts the whole decode. Duplicate topic
// names within one payload overwrite (last write wins). The caller keeps
// ownership of the buffer; no reference to it is retained.
func DecodeMemberAssignment(payload []byte) (map[string][]int32, error) {
	buf := bytes.NewReader(payload)

	var version int16
	if err := binary.Read(buf, binary.BigEndian, &version); err != nil {
		return nil, &DecodeError{Field: FieldVersion, Err: err}
	}

	var topicCount int32
	if err := binary.Read(buf, binary.BigEndian, &topicCount); err != nil {
		return nil, &DecodeError{Field: FieldTopicCount, Err: err}
	}
	if topicCount < 0 {
		return nil, &DecodeError{Field: FieldTopicCount, Err: fmt.Errorf("negative count %d", topicCount)}
	}

	assignments := make(map[string][]int32, topicCount)
	for i := int32(0); i < topicCount; i++ {
		topic, err := readTopicName(buf)
		if err != nil {
			return nil, err
		}

		var partitionCount int32
		if err := binary.Read(buf, binary.BigEndian, &partitionCount); err != nil {
			return nil, &DecodeError{Field: FieldPartitionCount, Err: err}
		}
		if partitionCount < 0 {
			return nil, &DecodeError{Field: FieldPartitionCount, Err: fmt.Errorf("negative count %d", partitionCount)}
		}

		partitions := make([]int32, 0, allocHint(partitionCount, buf.Len()))
		for j := int32(0); j < partitionCount; j++ {
			var partition int32
			if err := binary.Read(buf, binary.BigEndian, &partition); err != nil {
				return nil, &DecodeError{Field: FieldPartitionValue, Err: err}
			}
			partitions = append(partitions, partition)
		}
		assignments[topic] = partitions
	}

	return assignments, nil
}

func readTopicName(buf *bytes.Reader) (string, error) {
	var nameLen int16
	if err := binary.Read(buf, binary.BigEndian, &nameLen); err != nil {
		return "", &DecodeError{Field: FieldTopicNameLength, Err: err}
	}
	if nameLen < 0 {
		return "", &DecodeError{Field: FieldTopicNameLength, Err: fmt.Errorf("negative length %d", nameLen)}
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(buf, name); err != nil {
		return "", &DecodeError{Field: FieldTopicName, Err: err}
	}
	if !utf8.Valid(name) {
		return "", &DecodeError{Field: FieldTopicName, Err: fmt.Errorf("topic name is not valid UTF-8")}
	}

	return string(name), nil
}

// allocHint caps the preallocation for a declared element count by the bytes
// actually remaining in the buffer, so a corrupt count cannot trigger a huge
// allocation before the short read is detected.
func allocHint(declared int32, remaining int) int {
	max := remaining / 4
	if int(declared) < max {
		return int(declared)
	}
	return max
}
