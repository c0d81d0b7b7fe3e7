// Package ninjalog decodes ninja's persisted build log (.ninja_log).
//
// Only format version 5 is supported. The file is a text header followed by
// one tab-separated record per finished build step:
//
//	# ninja log v5
//	<start ms>	<end ms>	<restat mtime>	<output path>	<command hash, hex>
//
// Records appear in the order ninja finished the steps, across every
// invocation that ever used the build directory. This package only decodes;
// splitting the stream into invocations lives in package timeline.
package ninjalog
