package normalize

import "strings"

// genericEmailDomains are consumer mailbox and ISP providers. An address on
// one of these says nothing about which company the contact works for.
var genericEmailDomains = toSet(
	// Global webmail
	"gmail.com", "googlemail.com", "outlook.com", "hotmail.com", "live.com", "msn.com",
	"yahoo.com", "ymail.com", "rocketmail.com", "aol.com", "aim.com", "icloud.com",
	"me.com", "mac.com", "mail.com", "email.com", "usa.com", "post.com", "inbox.com",
	"zoho.com", "zohomail.com", "yandex.com", "protonmail.com", "proton.me", "pm.me",
	"tutanota.com", "tutanota.de", "tuta.io", "tutamail.com", "fastmail.com", "fastmail.fm",
	"hushmail.com", "mailfence.com", "runbox.com", "posteo.net", "gmx.com", "gmx.net",
	"hey.com", "mailbox.org", "disroot.org", "riseup.net", "startmail.com", "lavabit.com",
	"outlook.de", "outlook.fr", "outlook.es", "outlook.it", "outlook.at", "outlook.com.br",
	"hotmail.de", "hotmail.fr", "hotmail.es", "hotmail.it", "hotmail.co.uk", "hotmail.ch",
	"hotmail.at", "hotmail.nl", "hotmail.be", "hotmail.se", "hotmail.no", "hotmail.dk",
	"live.de", "live.fr", "live.co.uk", "live.at", "live.nl", "live.be", "live.it", "live.se",
	"yahoo.de", "yahoo.fr", "yahoo.es", "yahoo.it", "yahoo.co.uk", "yahoo.com.br",
	"yahoo.co.jp", "yahoo.co.in", "yahoo.com.au", "yahoo.ca", "yahoo.com.mx", "yahoo.com.ar",
	"yahoo.gr", "yahoo.se", "yahoo.no", "yahoo.dk", "yahoo.at", "yahoo.ch", "yahoo.nl",
	"yahoo.be", "yahoo.ie", "yahoo.pl", "yahoo.com.sg", "yahoo.com.hk", "yahoo.com.tw",
	"googlemail.de", "icloud.de", "aol.de", "aol.fr", "aol.co.uk",

	// Germany
	"web.de", "gmx.de", "gmx.at", "gmx.ch", "gmx.li", "t-online.de", "freenet.de",
	"arcor.de", "1und1.de", "online.de", "vodafone.de", "kabelmail.de", "unitybox.de",
	"versanet.de", "ewe.net", "osnanet.de", "htp-tel.de", "netcologne.de", "mnet-online.de",
	"posteo.de", "mailbox.de", "email.de", "emailn.de", "gmxpro.de", "magenta.de",
	"telekom.de", "alice.de", "alice-dsl.de", "alice-dsl.net", "o2online.de", "t-mobile.de",
	"nexgo.de", "lycos.de", "quantentunnel.de", "kabelbw.de", "kabel-bw.de", "unitymedia.de",
	"tele2.de", "hanse.net", "dokom.net", "wtnet.de", "vr-web.de", "onlinehome.de",
	"gmx.eu", "t-online.at",

	// Austria
	"aon.at", "chello.at", "utanet.at", "inode.at", "a1.net", "tele2.at", "drei.at",
	"kabsi.at", "liwest.at", "sbg.at", "tmo.at", "telering.at", "aon.cc", "magenta.at",

	// Switzerland
	"bluewin.ch", "sunrise.ch", "hispeed.ch", "swissonline.ch", "green.ch",
	"vtxmail.ch", "swisscom.ch", "bluemail.ch", "hotmail.li", "quickline.ch", "salt.ch",
	"netplus.ch", "tele2.ch", "datacomm.ch", "protonmail.ch",

	// France
	"orange.fr", "wanadoo.fr", "free.fr", "sfr.fr", "neuf.fr", "laposte.net", "bbox.fr",
	"numericable.fr", "club-internet.fr", "aliceadsl.fr", "cegetel.net", "noos.fr",
	"voila.fr", "gmx.fr", "9online.fr", "libertysurf.fr", "tele2.fr", "nordnet.fr",

	// Spain
	"telefonica.net", "movistar.es", "terra.es", "ya.com", "jazztel.es", "ono.com",
	"orange.es", "vodafone.es", "euskaltel.net", "wanadoo.es", "gmx.es",

	// Italy
	"libero.it", "virgilio.it", "tiscali.it", "alice.it", "tin.it", "fastwebnet.it",
	"email.it", "inwind.it", "iol.it", "tim.it", "vodafone.it", "teletu.it", "aruba.it",
	"pec.it", "legalmail.it",

	// Benelux
	"ziggo.nl", "kpnmail.nl", "planet.nl", "home.nl", "xs4all.nl", "hetnet.nl", "casema.nl",
	"chello.nl", "upcmail.nl", "quicknet.nl", "tele2.nl", "online.nl", "zonnet.nl",
	"telenet.be", "skynet.be", "proximus.be", "scarlet.be", "belgacom.net", "pandora.be",
	"voo.be", "base.be", "pt.lu", "internet.lu",

	// United Kingdom & Ireland
	"btinternet.com", "btopenworld.com", "sky.com", "virginmedia.com", "ntlworld.com",
	"blueyonder.co.uk", "talktalk.net", "tiscali.co.uk", "orange.net", "o2.co.uk",
	"plus.net", "googlemail.co.uk", "eircom.net", "gmail.co.uk", "bigpond.ie",

	// Nordics
	"telia.com", "telia.se", "comhem.se", "bredband.net", "spray.se", "passagen.se",
	"online.no", "telenor.no", "broadpark.no", "getmail.no", "jubii.dk", "mail.dk",
	"ofir.dk", "tdcadsl.dk", "stofanet.dk", "elisa.fi", "kolumbus.fi", "suomi24.fi",
	"luukku.com", "saunalahti.fi", "welho.com",

	// Central & Eastern Europe
	"wp.pl", "o2.pl", "onet.pl", "onet.eu", "interia.pl", "interia.eu", "gazeta.pl",
	"op.pl", "tlen.pl", "poczta.fm", "vp.pl", "seznam.cz", "email.cz", "centrum.cz",
	"volny.cz", "atlas.cz", "post.cz", "azet.sk", "centrum.sk", "zoznam.sk", "freemail.hu",
	"citromail.hu", "t-online.hu", "abv.bg", "mail.bg", "dir.bg", "yahoo.ro", "rdslink.ro",
	"gmail.ro", "net.hr", "t-com.hr", "siol.net", "inbox.lv", "inbox.lt", "mail.ee",

	// Russia, Ukraine & CIS
	"mail.ru", "inbox.ru", "list.ru", "bk.ru", "yandex.ru", "ya.ru", "rambler.ru",
	"ukr.net", "i.ua", "meta.ua", "bigmir.net", "yandex.ua", "yandex.by", "yandex.kz",
	"tut.by",

	// Southern Europe & Turkey
	"sapo.pt", "clix.pt", "netcabo.pt", "iol.pt", "mail.telepac.pt", "otenet.gr",
	"hol.gr", "forthnet.gr", "windowslive.gr", "mynet.com", "superonline.com",
	"ttmail.com", "turk.net",

	// North America
	"comcast.net", "verizon.net", "att.net", "sbcglobal.net", "bellsouth.net",
	"charter.net", "cox.net", "earthlink.net", "optonline.net", "roadrunner.com",
	"rr.com", "frontier.com", "frontiernet.net", "windstream.net", "centurylink.net",
	"q.com", "juno.com", "netzero.net", "netzero.com", "prodigy.net", "mindspring.com",
	"rogers.com", "shaw.ca", "sympatico.ca", "bell.net", "telus.net", "videotron.ca",
	"cogeco.ca", "eastlink.ca", "prodigy.net.mx", "hotmail.com.mx",

	// Latin America
	"uol.com.br", "bol.com.br", "terra.com.br", "ig.com.br", "globo.com", "globomail.com",
	"oi.com.br", "r7.com", "zipmail.com.br", "hotmail.com.br", "live.com.mx",
	"hotmail.com.ar", "fibertel.com.ar", "speedy.com.ar", "arnet.com.ar", "vtr.net",
	"entelchile.net", "une.net.co", "etb.net.co",

	// Asia-Pacific
	"qq.com", "163.com", "126.com", "yeah.net", "sina.com", "sina.cn", "sohu.com",
	"aliyun.com", "139.com", "189.cn", "foxmail.com", "naver.com", "daum.net",
	"hanmail.net", "nate.com", "kakao.com", "docomo.ne.jp", "ezweb.ne.jp",
	"softbank.ne.jp", "i.softbank.jp", "nifty.com", "biglobe.ne.jp", "ocn.ne.jp",
	"so-net.ne.jp", "rediffmail.com", "sify.com", "vsnl.net", "bigpond.com",
	"bigpond.net.au", "optusnet.com.au", "iinet.net.au", "tpg.com.au", "internode.on.net",
	"xtra.co.nz", "clear.net.nz", "singnet.com.sg", "pacific.net.sg", "streamyx.com",
	"netvigator.com", "hinet.net", "pchome.com.tw", "yahoo.com.ph", "yahoo.co.id",

	// Middle East & Africa
	"walla.co.il", "walla.com", "bezeqint.net", "netvision.net.il", "emirates.net.ae",
	"eim.ae", "mweb.co.za", "webmail.co.za", "telkomsa.net", "vodamail.co.za",
	"iafrica.com", "yahoo.co.za", "link.net", "tedata.net.eg",
)

// IsGenericEmailDomain reports whether domain belongs to a consumer mailbox
// or ISP provider.
func IsGenericEmailDomain(domain string) bool {
	return genericEmailDomains[strings.ToLower(strings.TrimSpace(domain))]
}

func toSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
