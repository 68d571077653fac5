package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// defaultData is the built-in catalog used when no seed file is configured
// or the configured file cannot be read. Prices mirror the public on-demand
// rates the comparison table was built from.
func defaultData() map[string]map[string][]InstanceRecord {
	return map[string]map[string][]InstanceRecord{
		"AWS": {
			"GPU_Instances": {
				{Provider: "AWS", InstanceType: "p3.2xlarge", GPUType: "V100", GPUCount: 1, VCPUs: 8, MemoryGB: 61, PricePerHour: price("3.06"), Region: "us-east-1"},
				{Provider: "AWS", InstanceType: "p3.8xlarge", GPUType: "V100", GPUCount: 4, VCPUs: 32, MemoryGB: 244, PricePerHour: price("12.24"), Region: "us-east-1"},
				{Provider: "AWS", InstanceType: "p2.xlarge", GPUType: "K80", GPUCount: 1, VCPUs: 4, MemoryGB: 61, PricePerHour: price("0.90"), Region: "us-east-1"},
			},
		},
		"Azure": {
			"GPU_Instances": {
				{Provider: "Azure", InstanceType: "NC6", GPUType: "K80", GPUCount: 1, VCPUs: 6, MemoryGB: 56, PricePerHour: price("0.90"), Region: "eastus"},
				{Provider: "Azure", InstanceType: "NC12", GPUType: "K80", GPUCount: 2, VCPUs: 12, MemoryGB: 112, PricePerHour: price("1.80"), Region: "eastus"},
				{Provider: "Azure", InstanceType: "NC24", GPUType: "K80", GPUCount: 4, VCPUs: 24, MemoryGB: 224, PricePerHour: price("3.60"), Region: "eastus"},
				{Provider: "Azure", InstanceType: "NC6s_v2", GPUType: "V100", GPUCount: 1, VCPUs: 6, MemoryGB: 112, PricePerHour: price("2.80"), Region: "eastus"},
			},
		},
		"GCP": {
			"GPU_Instances": {
				{Provider: "GCP", InstanceType: "n1-standard-8-k80", GPUType: "K80", GPUCount: 1, VCPUs: 8, MemoryGB: 30, PricePerHour: price("0.70"), Region: "us-central1"},
				{Provider: "GCP", InstanceType: "n1-standard-16-k80", GPUType: "K80", GPUCount: 2, VCPUs: 16, MemoryGB: 60, PricePerHour: price("1.40"), Region: "us-central1"},
				{Provider: "GCP", InstanceType: "n1-standard-8-v100", GPUType: "V100", GPUCount: 1, VCPUs: 8, MemoryGB: 30, PricePerHour: price("2.90"), Region: "us-central1"},
			},
		},
	}
}

// LoadSeed reads a provider -> category -> records JSON file.
func LoadSeed(path string) (map[string]map[string][]InstanceRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing seed '%s': %w", path, err)
	}
	var data map[string]map[string][]InstanceRecord
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse pricing seed '%s': %w", path, err)
	}
	return data, nil
}

// NewStoreFromSeed loads the seed file when given, falling back to the
// built-in dataset rather than failing startup.
func NewStoreFromSeed(path string, seed int64) *Store {
	if path != "" {
		data, err := LoadSeed(path)
		if err == nil {
			return NewStore(data, seed)
		}
		log.Printf("Warning: %v, falling back to built-in pricing data", err)
	}
	return NewStore(defaultData(), seed)
}
