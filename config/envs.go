package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	GridSide        int           // Cells per side of the square maze
	StartX          int           // Column of the start cell
	StartY          int           // Row of the start cell
	StartFacing     string        // Heading the robot starts with (NORTH, EAST, SOUTH, WEST)
	Strategy        string        // Controller to run: dfs, flood, righthand or manual
	CellSize        float64       // Cell side length in sensor units
	MazeSeed        int64         // Seed for maze generation, 0 picks one from the clock
	MaxSteps        int           // Upper bound on steps per run
	FrameDelay      time.Duration // Pause after every sub-move so the run can be watched
	SkipCalibration bool          // Trust StartFacing instead of calibrating flood fill runs
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		GridSide:        getEnvAsIntWithDefault("GRID_SIDE", 14),
		StartX:          getEnvAsIntWithDefault("START_X", 0),
		StartY:          getEnvAsIntWithDefault("START_Y", 0),
		StartFacing:     getEnvWithDefault("START_FACING", "EAST"),
		Strategy:        getEnvWithDefault("STRATEGY", "dfs"),
		CellSize:        getEnvAsFloatWithDefault("CELL_SIZE", 32),
		MazeSeed:        int64(getEnvAsIntWithDefault("MAZE_SEED", 0)),
		MaxSteps:        getEnvAsIntWithDefault("MAX_STEPS", 10000),
		FrameDelay:      time.Duration(getEnvAsIntWithDefault("FRAME_DELAY_MS", 0)) * time.Millisecond,
		SkipCalibration: getEnvAsBoolWithDefault("SKIP_CALIBRATION", false),
	}
}

// getEnvAsIntWithDefault retrieves the value of an environment variable as an integer or logs a fatal error if it cannot be parsed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

func getEnvAsFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a number: %v", key, err)
	}
	return value
}

func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a boolean: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
