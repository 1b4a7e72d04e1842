package transcription_test

import "time"

const shortTimeout = 20 * time.Millisecond

func runClock() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
}
