package metrics

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Progress is one sample of FFmpeg's -progress output. FFmpeg emits a
// key=value block per interval, terminated by a "progress=" line.
type Progress struct {
	Frame        int64
	FPS          float64
	BitrateKbits float64
	Bitrate      string
	TotalSize    int64
	OutTimeUS    int64
	Speed        string
	SpeedX       float64
	Dropped      int64
	Duplicate    int64
	End          bool
}

// ParseProgressField folds one key=value line into the sample. Unknown
// keys are ignored. Returns true when the line completes a block.
func ParseProgressField(p *Progress, line string) bool {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "frame":
		p.Frame, _ = strconv.ParseInt(value, 10, 64)
	case "fps":
		p.FPS, _ = strconv.ParseFloat(value, 64)
	case "bitrate":
		p.Bitrate = value
		p.BitrateKbits, _ = strconv.ParseFloat(strings.TrimSuffix(value, "kbits/s"), 64)
	case "total_size":
		p.TotalSize, _ = strconv.ParseInt(value, 10, 64)
	case "out_time_us":
		p.OutTimeUS, _ = strconv.ParseInt(value, 10, 64)
	case "speed":
		p.Speed = value
		p.SpeedX, _ = strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
	case "drop_frames":
		p.Dropped, _ = strconv.ParseInt(value, 10, 64)
	case "dup_frames":
		p.Duplicate, _ = strconv.ParseInt(value, 10, 64)
	case "progress":
		p.End = value == "end"
		return true
	}
	return false
}

// CollectProgress reads -progress output until EOF, invoking handle for
// every completed sample block. The carried sample keeps prior values so
// fields FFmpeg omits in an interval stay at their last reading.
func CollectProgress(r io.Reader, handle func(Progress)) error {
	scanner := bufio.NewScanner(r)
	var sample Progress
	for scanner.Scan() {
		if ParseProgressField(&sample, scanner.Text()) {
			handle(sample)
			sample.End = false
		}
	}
	return scanner.Err()
}
