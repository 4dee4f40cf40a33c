package main

import (
	"strconv"
	"strings"

	"reel/internal/studio"
)

func buildProfileRows(profiles []studio.Profile) [][]string {
	rows := make([][]string, 0, len(profiles))
	for _, profile := range profiles {
		lock := "-"
		if profile.Lock != nil {
			lock = "set"
			if profile.Lock.StrictLock {
				lock = "strict"
			}
		}
		rows = append(rows, []string{
			profile.ID,
			profile.Name,
			modeLabel(profile.Mode),
			yesNo(profile.ConsentChecked),
			strconv.Itoa(len(profile.References)),
			lock,
		})
	}
	return rows
}

func buildJobRows(jobs []studio.Job, colorize bool) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		detail := job.OutputVideoID
		if job.Status == studio.StatusError {
			detail = truncate(job.Error, 48)
		}
		rows = append(rows, []string{
			job.ID,
			job.ProfileID,
			statusLabel(job.Status, colorize),
			progressLabel(job),
			detail,
		})
	}
	return rows
}

func buildAssetRows(assets []studio.Asset, selectedID string) [][]string {
	rows := make([][]string, 0, len(assets))
	for _, asset := range assets {
		marker := ""
		if asset.ID == selectedID {
			marker = "*"
		}
		size := ""
		if asset.Width > 0 && asset.Height > 0 {
			size = strconv.Itoa(asset.Width) + "x" + strconv.Itoa(asset.Height)
		}
		duration := ""
		if asset.Duration > 0 {
			duration = strconv.FormatFloat(asset.Duration, 'f', 1, 64) + "s"
		}
		rows = append(rows, []string{
			marker,
			asset.ID,
			asset.Filename,
			size,
			duration,
			asset.CreatedAt,
		})
	}
	return rows
}

func buildReferenceRows(names []string) [][]string {
	rows := make([][]string, 0, len(names))
	for i, name := range names {
		rows = append(rows, []string{strconv.Itoa(i + 1), name})
	}
	return rows
}

func formatLoras(loras []string) string {
	if len(loras) == 0 {
		return "-"
	}
	return strings.Join(loras, ", ")
}
