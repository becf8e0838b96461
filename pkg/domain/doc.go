/*
Package domain contains the input model of the script compiler.

A script is an ordered list of blocks. Each block is activated by a trigger phrase
and carries the messages the bot sends, in order, when that trigger matches. The
types here are plain values: the compiler reads them and never mutates them.

# Key Entities

  - ScriptBlock: a trigger plus its ordered messages.
  - Message: the text of one outbound message and an optional inline button grid.
  - Button: an inline button that either opens a URL or sends callback data.
  - Diagnostic: a non-fatal finding reported while compiling a script.
*/
package domain
