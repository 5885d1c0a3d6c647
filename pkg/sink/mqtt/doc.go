// Package mqtt publishes peripheral output to an MQTT broker and accepts
// command lines from it.
package mqtt
