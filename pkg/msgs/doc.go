// Package msgs defines the protobuf messages published for decoded
// reports.
package msgs

// Messages are published by host-side monitors, never by the peripheral
// itself: the peripheral only speaks the ASCII link.
//
// Producer: host monitor
// Consumer: anything subscribed to the report topics
