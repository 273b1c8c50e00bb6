package converter

type Logger interface {
	Info(message string, module string)
	Warn(message string, module string)
	Error(string)
}

type discardLogger struct{}

func (discardLogger) Info(string, string) {}
func (discardLogger) Warn(string, string) {}
func (discardLogger) Error(string)        {}
