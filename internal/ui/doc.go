// Package ui contains the Bubble Tea program that shows the scene panel.
//
// Message flow:
//   - Init starts the single summary cycle (host readiness, then the
//     concurrent scene fetch) as a tea.Cmd and animates a spinner meanwhile.
//   - When scenesLoadedMsg arrives, the summaries are handed to a
//     panel.Renderer which mounts a heading and one row per scene into the
//     model's Panel. A failed cycle leaves the Panel empty and records the
//     error for the caller of Run.
//   - Key presses and mouse clicks move the cursor or activate a row. Row
//     activation runs the row's handler (a host scene switch) as a tea.Cmd and
//     reports back with activationResultMsg.
//
// Messages are routed through a typed handler registry so each tea.Msg is
// handled by one focused function. The Harness type drives the model without
// a terminal for tests.
package ui
