package app

import "sonar-radar.klederson.com/internal/scan"

// FrameMsg carries one presented radar frame from the canvas.
type FrameMsg string

// ReportMsg carries the report of a completed tick.
type ReportMsg scan.Report

// StoppedMsg is sent once the scan loop has torn down.
type StoppedMsg struct {
	Err error
}
