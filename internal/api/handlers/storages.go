package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bess-lab/internal/api/models"
	"bess-lab/internal/config"

	"github.com/gin-gonic/gin"
)

// DefaultStorageDir resolves the storage preset directory from the
// STORAGE_DIR environment variable, falling back to examples/storages under
// the working directory.
func DefaultStorageDir() string {
	dir := os.Getenv("STORAGE_DIR")
	if dir == "" {
		dir = filepath.Join("examples", "storages")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

// presetPath resolves a storage_file reference inside the preset directory
// and rejects anything that escapes it.
func presetPath(dir, name string) (string, error) {
	p := filepath.Join(dir, filepath.Clean("/"+name))
	if !strings.HasPrefix(p, dir) {
		return "", fmt.Errorf("storage_file %q is outside the preset directory", name)
	}
	return p, nil
}

// ListStorages handles GET /api/v1/storages
func (h *StudyHandler) ListStorages(c *gin.Context) {
	storages := []models.StorageInfo{}

	entries, err := os.ReadDir(h.storageDir)
	if err != nil {
		log.Printf("StudyHandler: failed to read storage directory %s: %v", h.storageDir, err)
		c.JSON(http.StatusOK, gin.H{"storages": storages})
		return
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		loaded, err := config.LoadStorageFile(filepath.Join(h.storageDir, name))
		if err != nil {
			log.Printf("StudyHandler: skipping %s: %v", name, err)
			continue
		}
		if loaded.Name == "" {
			loaded.Name = strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		}
		storages = append(storages, models.StorageInfo{
			Name:                loaded.Name,
			File:                name,
			CapacityMWh:         loaded.CapacityMWh,
			ChargeRate:          loaded.ChargeRate,
			DischargeRate:       loaded.DischargeRate,
			ChargeEfficiency:    loaded.ChargeEfficiency,
			DischargeEfficiency: loaded.DischargeEfficiency,
			MinSOC:              loaded.MinSOC,
			MaxSOC:              loaded.MaxSOC,
			InitialSOC:          loaded.InitialSOC,
		})
	}

	c.JSON(http.StatusOK, gin.H{"storages": storages})
}
