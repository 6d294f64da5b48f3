package main

import "github.com/statlab/mnlmc/cmd"

// TODO: checkpointing for long chains (freeze sampler state + chain so a run
//       can resume) - blocked on making rand.Generator state serializable

func main() {
	cmd.Execute()
}
