package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	tspb "github.com/golang/protobuf/ptypes/timestamp"
)

// SampleReport is one decoded sample report line.
type SampleReport struct {
	Device string `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	// Timestamp carries only the tick digits present in the line.
	Timestamp       uint32          `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Value           uint32          `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
	TimestampDigits uint32          `protobuf:"varint,4,opt,name=timestamp_digits,json=timestampDigits,proto3" json:"timestamp_digits,omitempty"`
	ReceivedAt      *tspb.Timestamp `protobuf:"bytes,5,opt,name=received_at,json=receivedAt,proto3" json:"received_at,omitempty"`
}

// Reset implements proto.Message.
func (m *SampleReport) Reset() { *m = SampleReport{} }

// String implements proto.Message.
func (m *SampleReport) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*SampleReport) ProtoMessage() {}

// ReaderStatus is a decoded query response.
type ReaderStatus struct {
	Device         string          `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Mode           string          `protobuf:"bytes,2,opt,name=mode,proto3" json:"mode,omitempty"`
	Verbosity      string          `protobuf:"bytes,3,opt,name=verbosity,proto3" json:"verbosity,omitempty"`
	TicksPerSecond uint32          `protobuf:"varint,4,opt,name=ticks_per_second,json=ticksPerSecond,proto3" json:"ticks_per_second,omitempty"`
	ReceivedAt     *tspb.Timestamp `protobuf:"bytes,5,opt,name=received_at,json=receivedAt,proto3" json:"received_at,omitempty"`
}

// Reset implements proto.Message.
func (m *ReaderStatus) Reset() { *m = ReaderStatus{} }

// String implements proto.Message.
func (m *ReaderStatus) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ReaderStatus) ProtoMessage() {}

// Stamp converts t for the ReceivedAt fields. A time outside the range
// protobuf timestamps can hold yields nil.
func Stamp(t time.Time) *tspb.Timestamp {
	ts, err := ptypes.TimestampProto(t)
	if err != nil {
		return nil
	}
	return ts
}

// Encode serializes a message.
func Encode(msg proto.Message) ([]byte, error) {
	return proto.Marshal(msg)
}

// DecodeSampleReport parses a serialized SampleReport.
func DecodeSampleReport(data []byte) (*SampleReport, error) {
	var m SampleReport
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeReaderStatus parses a serialized ReaderStatus.
func DecodeReaderStatus(data []byte) (*ReaderStatus, error) {
	var m ReaderStatus
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
