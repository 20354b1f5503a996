package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input validation for the analyze form

const maxQueryLen = 2000

// ValidateQuery checks the question text before any media work starts
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf("query is required")
	}
	if len(q) > maxQueryLen {
		return fmt.Errorf("query is too long (max %d characters)", maxQueryLen)
	}
	return nil
}

// ValidateFilename rejects path tricks and unknown extensions
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("filename is required")
	}

	dangerous := []string{"..", "/", "\\", "\x00"}
	for _, d := range dangerous {
		if strings.Contains(name, d) {
			return fmt.Errorf("invalid characters in filename")
		}
	}

	allowed := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".mp4":  true,
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowed[ext] {
		return fmt.Errorf("invalid file type: %s (allowed: jpg, jpeg, png, mp4)", ext)
	}
	return nil
}
