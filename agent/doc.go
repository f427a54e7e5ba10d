// Package agent implements the conversational run loop that powers Lumo's
// function-calling agent. The package focuses on three concerns:
//
//  1. Configuration and system-prompt assembly (Config, renderSystemPrompt)
//  2. The recall -> think -> act state machine (FunctionCallAgent)
//  3. Streaming run-event delivery through the queue package
//
// Execution Model:
//   - Run spawns a goroutine that drives the state machine and publishes
//     typed run events to a queue.Manager
//   - The caller consumes the returned channel until it closes; every run
//     terminates with exactly one terminal event
//   - Tool calls returned by the model are executed sequentially and their
//     observations are fed back into the conversation before the next round
package agent
