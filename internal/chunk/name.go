package chunk

import (
	"fmt"
	"strconv"
	"strings"
)

// Name returns the remote object name for chunk index of a backup stored
// under folder: "<folder>.<index>", one-based.
func Name(folder string, index int) string {
	return folder + "." + strconv.Itoa(index)
}

// ParseIndex extracts the one-based chunk index from an object name by
// parsing the substring after the last '.', e.g. 23 from "HHS.23".
func ParseIndex(name string) (int, error) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 || dot == len(name)-1 {
		return 0, fmt.Errorf("chunk name %q has no index suffix", name)
	}
	idx, err := strconv.Atoi(name[dot+1:])
	if err != nil {
		return 0, fmt.Errorf("chunk name %q has no index suffix", name)
	}
	return idx, nil
}
