package capture

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/logicbox/pkg/hostlink"
)

// Recorder records the sample report lines it receives into a Store.
// Other lines are ignored.
type Recorder struct {
	Store *Store
	Now   func() time.Time
}

// NewRecorder creates a Recorder.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{Store: store, Now: time.Now}
}

// HandleLine implements hostlink.LineHandler.
func (r *Recorder) HandleLine(line string) {
	rep, err := hostlink.ParseReport(line)
	if err != nil {
		return
	}
	err = r.Store.Record(Sample{
		Timestamp:       rep.Timestamp,
		TimestampDigits: rep.TimestampDigits,
		Value:           rep.Value,
		ReceivedAt:      r.Now(),
	})
	if err != nil {
		glog.Errorf("capture record error: %v", err)
	}
}
