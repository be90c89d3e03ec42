package fuzzer

import "strings"

// setEnv overrides key in a raw environ slice in place. Appending a
// duplicate is not enough on the exec path: the replaced image receives the
// array verbatim and libc getenv returns the first match.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func lookupEnv(env []string, key string) string {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}
