// Package effectchain publishes the built-in effects through a Registry and
// runs ordered effect chains over whole buffers.
package effectchain
