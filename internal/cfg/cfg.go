package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/jimlawless/whereami"
)

// Варианты хранилища корзин.
const (
	BackendDynamoDB  = "dynamodb"
	BackendCosmos    = "cosmos"
	BackendFirestore = "firestore"
	BackendRedis     = "redis"
	BackendMemory    = "memory"
)

type Config struct {
	Http      *HTTPConfig
	Db        *PGDBCfg
	Cart      *CartStoreCfg
	Dynamo    *DynamoDBCfg
	Cosmos    *CosmosCfg
	Firestore *FirestoreCfg
	Redis     *RedisCfg
	Kafka     *KafkaCfg // nil, если KAFKA_BROKERS не задан
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	SecretARN     string // ARN секрета с {"username","password"}; если задан, перекрывает User/Password
	RunMigrations bool
}

type CartStoreCfg struct {
	Backend       string
	TableName     string // таблица DynamoDB, контейнер Cosmos DB или коллекция Firestore
	FilterExpired bool
}

type DynamoDBCfg struct {
	Endpoint string // пусто — эндпоинт AWS по умолчанию
}

type CosmosCfg struct {
	Endpoint string
	Key      string
	Database string
}

type FirestoreCfg struct {
	ProjectID string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Обязательные переменные хранилища проверяются только для выбранного варианта.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cart, err := loadCartStoreCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	config := &Config{
		Http: http,
		Db:   db,
		Cart: cart,
	}

	switch cart.Backend {
	case BackendDynamoDB:
		config.Dynamo = loadDynamoDBCfg()
	case BackendCosmos:
		config.Cosmos, err = loadCosmosCfg(log)
	case BackendFirestore:
		config.Firestore, err = loadFirestoreCfg(log)
	case BackendRedis:
		config.Redis, err = loadRedisCfg(log)
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	config.Kafka, err = loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return config, nil
}

func loadCartStoreCfg(log logger.Logger) (*CartStoreCfg, error) {
	const (
		defaultBackend       = BackendDynamoDB
		defaultTableName     = "UserCarts"
		defaultFilterExpired = false
	)

	backend := strings.ToLower(strings.TrimSpace(getEnvOrDefault("CART_STORE_BACKEND", defaultBackend)))
	switch backend {
	case BackendDynamoDB, BackendCosmos, BackendFirestore, BackendRedis, BackendMemory:
	default:
		err := fmt.Errorf("%w: %q", e.ErrUnknownCartBackend, backend)
		log.Errorf(err, "invalid CART_STORE_BACKEND")
		return nil, err
	}

	filterExpired, err := parseBoolEnv("CART_FILTER_EXPIRED", defaultFilterExpired)
	if err != nil {
		log.Errorf(err, "invalid CART_FILTER_EXPIRED")
		return nil, err
	}

	return &CartStoreCfg{
		Backend:       backend,
		TableName:     getEnvOrDefault("CART_TABLE_NAME", defaultTableName),
		FilterExpired: filterExpired,
	}, nil
}

func loadDynamoDBCfg() *DynamoDBCfg {
	return &DynamoDBCfg{
		Endpoint: getEnv("DYNAMODB_ENDPOINT"),
	}
}

func loadCosmosCfg(log logger.Logger) (*CosmosCfg, error) {
	const defaultDatabase = "ShoppingCartDB"

	endpoint := getEnv("COSMOS_ENDPOINT")
	if endpoint == "" {
		err := fmt.Errorf("COSMOS_ENDPOINT is required")
		log.Errorf(err, "missing COSMOS_ENDPOINT")
		return nil, err
	}

	key := getEnv("COSMOS_KEY")
	if key == "" {
		err := fmt.Errorf("COSMOS_KEY is required")
		log.Errorf(err, "missing COSMOS_KEY")
		return nil, err
	}

	return &CosmosCfg{
		Endpoint: endpoint,
		Key:      key,
		Database: getEnvOrDefault("COSMOS_DATABASE", defaultDatabase),
	}, nil
}

func loadFirestoreCfg(log logger.Logger) (*FirestoreCfg, error) {
	projectID := getEnv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		err := fmt.Errorf("FIRESTORE_PROJECT_ID is required")
		log.Errorf(err, "missing FIRESTORE_PROJECT_ID")
		return nil, err
	}

	return &FirestoreCfg{ProjectID: projectID}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "cart-events"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}
	brokers := strings.Split(brokerStr, ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

// loadPGDBCfg читает параметры каталога. При заданном DB_SECRET_ARN логин и пароль
// берутся из Secrets Manager при старте, поэтому POSTGRES_USER/PASSWORD не обязательны.
func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultRunMigrations = false
	)

	secretARN := getEnv("DB_SECRET_ARN")

	user := getEnv("POSTGRES_USER")
	if user == "" && secretARN == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" && secretARN == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	runMigrations, err := parseBoolEnv("RUN_MIGRATIONS", defaultRunMigrations)
	if err != nil {
		log.Errorf(err, "invalid RUN_MIGRATIONS")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		SecretARN:     secretARN,
		RunMigrations: runMigrations,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     max(readTimeout, writeTimeout),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	boolValue, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return boolValue, nil
}
