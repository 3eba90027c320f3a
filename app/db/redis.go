package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	prefixUser     = "user:"
	prefixUserItem = "user_item:"
)

// RedisStorage implements storage interface for Redis.
// Users are stored as JSON strings, user dictionaries as hashes of item ID to JSON.
type RedisStorage struct {
	db *redis.Client
}

func userKey(id UserID) string {
	return prefixUser + strconv.FormatInt(int64(id), 10)
}

func userItemsKey(id UserID) string {
	return prefixUserItem + strconv.FormatInt(int64(id), 10)
}

// GetUser from redis
func (s *RedisStorage) GetUser(id UserID) (User, error) {
	data, err := s.db.Get(context.Background(), userKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("fetching user: %w", err)
	}
	var user User
	if jerr := json.Unmarshal([]byte(data), &user); jerr != nil {
		return user, fmt.Errorf("unmarshal user: %w", jerr)
	}
	return user, nil
}

// SaveUser to redis
func (s *RedisStorage) SaveUser(user User) error {
	jdata, jerr := json.Marshal(user)
	if jerr != nil {
		return fmt.Errorf("marshal user: %w", jerr)
	}
	if err := s.db.Set(context.Background(), userKey(user.ID), string(jdata), 0).Err(); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// GetUserItem from user dictionary hash
func (s *RedisStorage) GetUserItem(user UserID, id string) (UserDictionaryItem, error) {
	data, err := s.db.HGet(context.Background(), userItemsKey(user), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return UserDictionaryItem{}, ErrNotFound
		}
		return UserDictionaryItem{}, fmt.Errorf("fetching user item: %w", err)
	}
	var item UserDictionaryItem
	if jerr := json.Unmarshal([]byte(data), &item); jerr != nil {
		return item, fmt.Errorf("unmarshal user item: %w", jerr)
	}
	return item, nil
}

// SaveUserItem to user dictionary hash
func (s *RedisStorage) SaveUserItem(item UserDictionaryItem) error {
	jdata, jerr := json.Marshal(item)
	if jerr != nil {
		return fmt.Errorf("marshal user item: %w", jerr)
	}
	if err := s.db.HSet(context.Background(), userItemsKey(item.User), item.ID, string(jdata)).Err(); err != nil {
		return fmt.Errorf("saving user item: %w", err)
	}
	return nil
}

// DeleteUserItem from user dictionary hash
func (s *RedisStorage) DeleteUserItem(user UserID, id string) error {
	deleted, err := s.db.HDel(context.Background(), userItemsKey(user), id).Result()
	if err != nil {
		return fmt.Errorf("deleting user item: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserDictionary from redis
func (s *RedisStorage) GetUserDictionary(user UserID) ([]UserDictionaryItem, error) {
	userItems, err := s.db.HGetAll(context.Background(), userItemsKey(user)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []UserDictionaryItem{}, nil
		}
		return nil, fmt.Errorf("fetching user items: %w", err)
	}
	items := make([]UserDictionaryItem, 0, len(userItems))
	for _, jdata := range userItems {
		var item UserDictionaryItem
		if jerr := json.Unmarshal([]byte(jdata), &item); jerr != nil {
			return nil, fmt.Errorf("unmarshal user item: %w", jerr)
		}
		items = append(items, item)
	}
	sortItems(items)
	return items, nil
}

// NewRedisStorage creates RedisStorage with given url
func NewRedisStorage(url string) (*RedisStorage, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStorage{db: rdb}, nil
}

// Close closes redis connection
func (s *RedisStorage) Close() error {
	return s.db.Close()
}
