package mqtt

import (
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/logicbox/pkg/framework"
	"github.com/robotalks/logicbox/pkg/hostlink"
	"github.com/robotalks/logicbox/pkg/msgs"
)

// Topics under <prefix><device>/.
const (
	TopicReport  = "report"
	TopicStatus  = "status"
	TopicLine    = "line"
	TopicCommand = "cmd"
)

// Publisher publishes lines received from a peripheral. Sample reports
// and query responses are published as protobuf messages, anything else
// as the raw line.
type Publisher struct {
	Queue  *Queue
	Device string
	Now    func() time.Time
}

// NewPublisher creates a Publisher for device.
func NewPublisher(q *Queue, device string) *Publisher {
	return &Publisher{Queue: q, Device: device, Now: time.Now}
}

// Topic returns the full topic (without the queue prefix) of name.
func (p *Publisher) Topic(name string) string {
	return p.Device + "/" + name
}

// HandleLine implements hostlink.LineHandler.
func (p *Publisher) HandleLine(line string) {
	if line == "" {
		return
	}
	now := p.Now()
	if rep, err := hostlink.ParseReport(line); err == nil {
		p.publish(TopicReport, &msgs.SampleReport{
			Device:          p.Device,
			Timestamp:       rep.Timestamp,
			Value:           uint32(rep.Value),
			TimestampDigits: uint32(rep.TimestampDigits),
			ReceivedAt:      msgs.Stamp(now),
		})
		return
	}
	if st, err := hostlink.ParseStatus(line); err == nil {
		p.publish(TopicStatus, &msgs.ReaderStatus{
			Device:         p.Device,
			Mode:           st.Mode.String(),
			Verbosity:      st.Verbosity.String(),
			TicksPerSecond: st.TicksPerSecond,
			ReceivedAt:     msgs.Stamp(now),
		})
		return
	}
	p.Queue.Pub(p.Topic(TopicLine), []byte(line))
}

// ForwardCommands subscribes to the command topic and posts every valid
// command line of a message to poster. A message may carry several
// lines; a final line without terminator is accepted.
func (p *Publisher) ForwardCommands(poster fx.CommandPoster) *Subscription {
	return p.Queue.Sub(p.Topic(TopicCommand), func(topic string, payload []byte) {
		var parser hostlink.Parser
		for _, b := range payload {
			forwardByte(&parser, b, topic, poster)
		}
		forwardByte(&parser, '\n', topic, poster)
	})
}

func forwardByte(parser *hostlink.Parser, b byte, topic string, poster fx.CommandPoster) {
	cmd, err := parser.Parse(b)
	if err != nil {
		glog.V(2).Infof("%s: %v", topic, err)
		return
	}
	if cmd != nil {
		poster.PostCommand(*cmd)
	}
}

func (p *Publisher) publish(name string, msg proto.Message) {
	data, err := msgs.Encode(msg)
	if err != nil {
		glog.Errorf("encode %s error: %v", name, err)
		return
	}
	p.Queue.Pub(p.Topic(name), data)
}
