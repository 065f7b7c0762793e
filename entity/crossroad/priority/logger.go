package priority

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "priority")
