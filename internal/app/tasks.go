package app

import (
	"github.com/quantmind-br/treefile-go/internal/builder"
	"github.com/quantmind-br/treefile-go/internal/project"
)

// ResponseFileName is the name of the response file written for a generation
const ResponseFileName = "treebuilder.rsp"

// BuildTask is one archive to build from the shared response file
type BuildTask struct {
	Format  project.Format
	Output  string
	Options builder.BuildOptions
}

// PlanTasks returns one task per requested format in the project's order.
// Plain archives disable encryption; encrypted archives force it and carry
// the passphrase.
func PlanTasks(p *project.Project) []BuildTask {
	tasks := make([]BuildTask, 0, len(p.Formats))
	for _, f := range p.Formats {
		task := BuildTask{
			Format: f,
			Output: p.OutputPath(f),
		}
		if f.Encrypted() {
			task.Options = builder.BuildOptions{
				ForceEncrypt: true,
				Passphrase:   p.Passphrase,
			}
		} else {
			task.Options = builder.BuildOptions{DisableEncrypt: true}
		}
		tasks = append(tasks, task)
	}
	return tasks
}
