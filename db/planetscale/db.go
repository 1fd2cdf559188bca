package planetscale

import (
	"database/sql"
	"fmt"
	"github.com/navbryce/next-dorm-blog/config"
	db2 "github.com/navbryce/next-dorm-blog/db"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

type PlanetScaleDB struct {
	*PostDB
	sess db.Session
}

func GetDatabase(cfg config.Config) (db2.Database, error) {
	sqlDB, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s)/%s?tls=true&parseTime=true&loc=UTC",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBName))
	if err != nil {
		return nil, err
	}

	// TODO: Move pool sizing to config once read traffic is measured
	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return &PlanetScaleDB{
		PostDB: getPostDB(sess),
		sess:   sess,
	}, nil
}

func (psdb *PlanetScaleDB) Close() error {
	return psdb.sess.Close()
}
