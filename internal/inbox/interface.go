package inbox

import "context"

// Processor turns one dropped audio file into analysis and summary reports.
type Processor interface {
	Process(ctx context.Context, audioPath string) error
}
