package store

import "sort"

// filterEvents applies opts to events already ordered newest first.
func filterEvents(events []LLMRequestEventRecord, opts QueryOpts) []LLMRequestEventRecord {
	var out []LLMRequestEventRecord
	for _, e := range events {
		if opts.After > 0 && int64(e.ID) <= opts.After {
			continue
		}
		if opts.Before > 0 && int64(e.ID) >= opts.Before {
			continue
		}
		if !opts.From.IsZero() && e.Timestamp.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && e.Timestamp.After(opts.To) {
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out
}

func usageByPurpose(events []LLMRequestEventRecord) []LLMUsageStats {
	idx := make(map[string]int)
	var (
		out     []LLMUsageStats
		latency []int64
	)
	for _, e := range events {
		i, ok := idx[e.Purpose]
		if !ok {
			i = len(out)
			idx[e.Purpose] = i
			out = append(out, LLMUsageStats{Purpose: e.Purpose})
			latency = append(latency, 0)
		}
		out[i].Calls++
		out[i].InputTokens += e.InputTokens
		out[i].OutputTokens += e.OutputTokens
		latency[i] += e.LatencyMs
	}
	for i := range out {
		out[i].AvgLatencyMs = latency[i] / int64(out[i].Calls)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Calls != out[b].Calls {
			return out[a].Calls > out[b].Calls
		}
		return out[a].Purpose < out[b].Purpose
	})
	return out
}

func usageByModel(events []LLMRequestEventRecord) []LLMModelUsage {
	idx := make(map[string]int)
	var out []LLMModelUsage
	for _, e := range events {
		i, ok := idx[e.Model]
		if !ok {
			i = len(out)
			idx[e.Model] = i
			out = append(out, LLMModelUsage{Model: e.Model})
		}
		out[i].Calls++
		out[i].InputTokens += e.InputTokens
		out[i].OutputTokens += e.OutputTokens
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Calls != out[b].Calls {
			return out[a].Calls > out[b].Calls
		}
		return out[a].Model < out[b].Model
	})
	return out
}
