package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"guesthouse-backend/models"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "guesthouse_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// SeedRooms creates the fixed inventory on an empty database.
func SeedRooms(db *gorm.DB) {
	var count int64
	db.Model(&models.Room{}).Count(&count)
	if count > 0 {
		return
	}

	rate := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	rooms := []models.Room{
		{RoomNumber: "101", Floor: "1", Capacity: 2, NightlyRate: rate(1200), AirCon: true},
		{RoomNumber: "102", Floor: "1", Capacity: 2, NightlyRate: rate(1200), AirCon: true},
		{RoomNumber: "103", Floor: "1", Capacity: 3, NightlyRate: rate(1500), AirCon: true, Balcony: true},
		{RoomNumber: "104", Floor: "1", Capacity: 3, NightlyRate: rate(1500), AirCon: true, Balcony: true},
		{RoomNumber: "201", Floor: "2", Capacity: 2, NightlyRate: rate(1800), AirCon: true, SeaView: true},
		{RoomNumber: "202", Floor: "2", Capacity: 2, NightlyRate: rate(1800), AirCon: true, SeaView: true},
		{RoomNumber: "203", Floor: "2", Capacity: 4, NightlyRate: rate(2400), AirCon: true, SeaView: true, Balcony: true},
		{RoomNumber: "204", Floor: "2", Capacity: 4, NightlyRate: rate(2400), AirCon: true, SeaView: true, Balcony: true},
		{RoomNumber: "301", Floor: "3", Capacity: 5, NightlyRate: rate(3200), AirCon: true, SeaView: true, Balcony: true},
		{RoomNumber: "302", Floor: "3", Capacity: 5, NightlyRate: rate(3200), AirCon: true, SeaView: true, Balcony: true},
	}
	if err := db.Create(&rooms).Error; err != nil {
		log.Printf("warning: failed to seed rooms: %v", err)
		return
	}
	log.Println("Rooms seeded")
}

// ConnectDatabase opens the MySQL connection, runs migrations and seeds the
// room inventory. The handle is returned for injection; there is no package
// global.
func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Room{},
		&models.Reservation{},
		&models.Payment{},
		&models.Expense{},
	); err != nil {
		return nil, err
	}

	SeedRooms(db)
	return db, nil
}
