package persistence

import "video-digest/infrastructure/configuration"

func configurationDatabase(host, port, user, password, name string) configuration.Database {
	return configuration.Database{Host: host, Port: port, User: user, Password: password, Name: name}
}
