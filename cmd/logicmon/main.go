package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/logicbox/pkg/msgs"
	"github.com/robotalks/logicbox/pkg/sink/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/logicbox/"
)

func init() {
	if val := os.Getenv("LOGICBOX_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", func(topic string, payload []byte) {
		switch {
		case strings.HasSuffix(topic, "/"+mqtt.TopicReport):
			rep, err := msgs.DecodeSampleReport(payload)
			if err != nil {
				log.Printf("%s: bad report: %v", topic, err)
				return
			}
			log.Printf("%s: t=%0*x value=%04x", topic, int(rep.TimestampDigits), rep.Timestamp, rep.Value)
		case strings.HasSuffix(topic, "/"+mqtt.TopicStatus):
			st, err := msgs.DecodeReaderStatus(payload)
			if err != nil {
				log.Printf("%s: bad status: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, st.String())
		default:
			log.Printf("%s: %s", topic, string(payload))
		}
	})
	<-(chan struct{})(nil)
}
