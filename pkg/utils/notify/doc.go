// Package notify writes styled, user-facing console messages.
//
// Each message type has a fixed symbol and color. Success messages can carry a
// timer.Timer, in which case the stage and total durations follow the message.
// Titles start with an emoji; wrap the command writer in a StageSeparatingWriter
// to get a blank line between stages.
package notify
