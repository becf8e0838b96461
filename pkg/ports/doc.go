/*
Package ports defines the driven ports (interfaces) of the script compiler.

These interfaces decouple the compiler from ambient capabilities, so a caller can
inject deterministic implementations in tests and production implementations elsewhere.

# Key Interfaces

  - IDGenerator: supplies unique opaque tokens for node ids and webhook slots.
  - ScriptSource: yields the raw bytes of a script document (file, request body, tool argument).
*/
package ports
