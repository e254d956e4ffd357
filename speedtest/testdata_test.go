package speedtest

const configXML = `<?xml version="1.0" encoding="UTF-8"?>
<settings>
<client ip="203.0.113.7" lat="0" lon="0" isp="Example ISP" isprating="3.7" rating="0" ispdlavg="0" ispulavg="0" loggedin="0" country="DE" />
<server-config threadcount="4" ignoreids="3,99" notonmap="" forcepingid="" preferredserverid=""/>
<download testlength="10" initialtest="250K" mintestsize="250K" threadsperurl="4"/>
<upload testlength="10" ratio="2" initialtest="0" mintestsize="32K" threads="2" maxchunksize="512K" maxchunkcount="4" threadsperurl="4"/>
</settings>`

const catalogXML = `<?xml version="1.0" encoding="UTF-8"?>
<settings>
<servers>
<server url="http://far.example.net/speedtest/upload.php" lat="0" lon="0.5" name="Far" country="Germany" cc="DE" sponsor="Far Inc" id="1" host="far.example.net:8080" />
<server url="http://near.example.net/speedtest/upload.php" lat="0" lon="0.1" name="Near" country="Germany" cc="DE" sponsor="Near Inc" id="2" host="near.example.net:8080" />
<server url="http://ignored.example.net/speedtest/upload.php" lat="0" lon="0" name="Ignored" country="France" cc="FR" sponsor="Ign" id="3" host="ignored.example.net:8080" />
<server url="http://dup.example.net/speedtest/upload.php" lat="bad" lon="0.2" name="Dup" country="France" cc="FR" sponsor="Dup" id="2" host="dup.example.net:8080" />
<server url="http://odd.example.net/speedtest/upload.php" lat="oops" lon="0.3" name="Odd" country="Spain" cc="ES" sponsor="Odd" id="4" host="odd.example.net:8080" />
</servers>
</settings>`
