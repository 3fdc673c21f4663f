package main

import (
	"context"
	"fmt"
	"strings"

	"scap-recorder/binary"
	"scap-recorder/database"
	"scap-recorder/events"
	"scap-recorder/platform"
	"scap-recorder/schema"
	"scap-recorder/sigma"
)

// startSourceReader pulls records off the capture source and frames each one
// as a raw event. Malformed records are logged and skipped; capture keeps
// going.
func startSourceReader(source platform.Source, eventChan chan *events.RawEvent) {
	for {
		record, err := source.Read()
		if err != nil {
			if strings.Contains(err.Error(), "closed") {
				close(eventChan)
				return
			}
			fmt.Printf("Error reading capture buffer: %v\n", err)
			continue
		}

		if record.LostSamples != 0 {
			fmt.Printf("Lost %d samples\n", record.LostSamples)
			continue
		}

		raw, err := events.NewRawEvent(record.RawSample)
		if err != nil {
			fmt.Printf("Error framing event: %v\n", err)
			continue
		}

		eventChan <- raw
	}
}

// startEventProcessor decodes framed events and persists them. Exec exits
// additionally get a denormalized row, a binary archive pass and a detection
// pass.
func startEventProcessor(ctx context.Context, eventChan chan *events.RawEvent,
	db *database.DB, detector *sigma.Detector, cache *binary.Cache) {
	fmt.Println("Starting event processor...")
	count := 0
	for raw := range eventChan {
		ev, err := events.DecodeAny(raw)
		if err != nil {
			fmt.Printf("Error decoding %s event: %v\n", schema.Name(raw.Type), err)
			continue
		}

		fieldMap, err := raw.FieldMap()
		if err != nil {
			// Known kind that decoded above cannot fail here, but unknown
			// kinds have no schema entry and no field map.
			fieldMap = nil
		}

		eventID, err := db.InsertEvent(&database.EventRecord{
			Timestamp: raw.Time(),
			Tid:       raw.Tid,
			EventType: uint16(raw.Type),
			Name:      ev.Name(),
			Fields:    fieldMap,
		})
		if err != nil {
			fmt.Printf("Error inserting event record: %v\n", err)
			continue
		}

		count++
		if count%100 == 0 {
			fmt.Printf(" [%d]\n", count)
		}

		if exec, ok := ev.Payload.(*events.ExecveExit); ok {
			processExecEvent(ctx, ev, exec, eventID, fieldMap, db, detector, cache)
		}
	}
}

func processExecEvent(ctx context.Context, ev *events.AnyEvent, exec *events.ExecveExit,
	eventID int64, fieldMap map[string]interface{},
	db *database.DB, detector *sigma.Detector, cache *binary.Cache) {

	exe := exec.Exe.String()

	var md5 string
	if cache != nil && exe != "" {
		md5 = cache.StoreFromExec(exe)
	}

	args := make([]string, 0, len(exec.Args))
	for _, a := range exec.Args {
		args = append(args, a.String())
	}

	rec := &database.ExecRecord{
		Timestamp: ev.Raw.Time(),
		Tid:       ev.Tid,
		Exe:       exe,
		CmdLine:   strings.Join(args, " "),
		Cwd:       exec.Cwd.String(),
		Comm:      exec.Comm.String(),
		BinaryMD5: md5,
	}
	if exec.Pid != nil {
		rec.Pid = *exec.Pid
	}
	if exec.Ptid != nil {
		rec.Ptid = *exec.Ptid
	}
	if _, err := db.InsertExec(rec); err != nil {
		fmt.Printf("Error inserting exec record: %v\n", err)
	}

	if detector == nil {
		return
	}

	// Enrich the flat parameter map with the synthesized names rules
	// usually key on.
	detectorEvent := make(map[string]interface{}, len(fieldMap)+2)
	for k, v := range fieldMap {
		detectorEvent[k] = v
	}
	detectorEvent["Image"] = exe
	detectorEvent["CommandLine"] = rec.CmdLine

	for _, match := range detector.CheckEvent(ctx, detectorEvent) {
		if err := detector.StoreMatch(match, eventID, detectorEvent); err != nil {
			fmt.Printf("Error storing match: %v\n", err)
		}
	}
}
