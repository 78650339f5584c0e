package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/askeza/internal/constants"
)

// Logger is shared by every package. It stays nil until Init or UseWriter,
// and the helpers below drop records while it is nil.
var Logger *log.Logger

// Rotation limits for the askeza log file.
const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 28
)

// Config selects where records go and how verbose they are.
type Config struct {
	Debug     bool
	ConfigDir string
}

// FilePath is the rotating log file under dir.
func FilePath(dir string) string {
	return filepath.Join(dir, "logs", constants.AppName+".log")
}

// Init writes records to a rotating file under cfg.ConfigDir. With Debug set
// the level drops to debug and records are mirrored to stderr with callers.
func Init(cfg Config) error {
	path := FilePath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	opts := log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
		Prefix:          constants.AppName,
	}
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}

	Logger = log.NewWithOptions(out, opts)
	return nil
}

// UseWriter sends records at level and above to w.
func UseWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{Level: level, Prefix: constants.AppName})
}

func emit(level log.Level, msg string, keyvals []any) {
	if Logger == nil {
		return
	}
	Logger.Helper()
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...any) { emit(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...any) { emit(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...any) { emit(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...any) { emit(log.ErrorLevel, msg, keyvals) }

// Fatal logs at error level and exits with status 1.
func Fatal(msg string, keyvals ...any) {
	emit(log.ErrorLevel, msg, keyvals)
	os.Exit(1)
}
