// Package chrometrace converts lane-assigned build steps into Chrome trace
// events, the JSON format read by chrome://tracing and Perfetto.
//
// Every step becomes a complete event ("ph": "X") whose thread id is its
// lane. Timestamps move from the log's milliseconds to the format's
// microseconds.
package chrometrace
