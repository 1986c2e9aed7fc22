package trackLog

import (
	"fmt"

	"github.com/Jeshoorin/Gym-Suggestions/services/log"

	"github.com/sirupsen/logrus"
)

// logTracker writes to stderr until LogTrackInit swaps in the file logger.
var logTracker = logrus.NewEntry(logrus.StandardLogger())

func LogTrackInit() {
	var trackerService log.LogService
	temp := trackerService.LoggerInit("tracker")
	logTracker = temp.WithFields(logrus.Fields{"task": "track"})
}

// Entry exposes the tracker for callers that want structured fields.
func Entry() *logrus.Entry {
	return logTracker
}

func Info(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Info(message)
	}
	fmt.Println(message)
}

func Warn(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Warn(message)
	}
	fmt.Println(message)
}

func Error(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Error(message)
	}
	fmt.Println(message)
}
