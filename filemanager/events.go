package filemanager

import (
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/file"
)

// FilesPayload carries a batch of files
type FilesPayload struct {
	Files []*file.ResolvedFile
}

// FilePayload brackets the processing of a single file
type FilePayload struct {
	File  *file.ResolvedFile
	Index int
	Total int
}

// ProgressPayload reports a printed file. Writers react to it.
type ProgressPayload struct {
	File       *file.ResolvedFile
	Source     string
	Processed  int
	Total      int
	Percentage float64
	DryRun     bool
}

// Lifecycle events
var (
	EventStart  = event.Key[struct{}]("start")
	EventEnd    = event.Key[struct{}]("end")
	EventRender = event.Key[struct{}]("render")

	EventFileAdd    = event.Key[FilesPayload]("file:add")
	EventWriteStart = event.Key[FilesPayload]("write:start")
	EventWriteEnd   = event.Key[FilesPayload]("write:end")

	EventProcessStart    = event.Key[FilesPayload]("process:start")
	EventProcessEnd      = event.Key[FilesPayload]("process:end")
	EventFileStart       = event.Key[FilePayload]("file:start")
	EventFileEnd         = event.Key[FilePayload]("file:end")
	EventProcessProgress = event.Key[ProgressPayload]("process:progress")
)

// EventNames lists every lifecycle event name
func EventNames() []string {
	return []string{
		EventStart.String(),
		EventEnd.String(),
		EventRender.String(),
		EventFileAdd.String(),
		EventWriteStart.String(),
		EventWriteEnd.String(),
		EventProcessStart.String(),
		EventProcessEnd.String(),
		EventFileStart.String(),
		EventFileEnd.String(),
		EventProcessProgress.String(),
	}
}
