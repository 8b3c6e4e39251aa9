package main

import (
	"fmt"
	"strconv"
	"time"

	"stagehand/internal/artifact"
)

// parseFeatureArgs accepts either "1-user-auth" or "1 user-auth".
func parseFeatureArgs(args []string) (artifact.FeatureID, error) {
	switch len(args) {
	case 1:
		return artifact.ParseRef(args[0])
	case 2:
		seq, err := strconv.Atoi(args[0])
		if err != nil {
			return artifact.FeatureID{}, fmt.Errorf("feature sequence %q is not a number", args[0])
		}
		return artifact.NewFeatureID(seq, args[1])
	default:
		return artifact.FeatureID{}, fmt.Errorf("expected <seq>-<slug> or <seq> <slug>")
	}
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
